package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dsxplore/go-dsx/archive"
)

func archiveCmd(args []string) error {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	db := fs.String("db", "runs.db", "SQLite database path")
	limit := fs.Int("limit", 10, "Number of runs to list")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: dsx archive <list|show|export> [run_id] [options]

Inspect archived exploration runs.

Subcommands:
  list            List recent runs
  show <run_id>   Show one run and its solutions
  export <run_id> Print a run with its solutions as JSON

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  dsx archive list --db runs.db
  dsx archive show run_1a2b3c4d --db runs.db
  dsx archive export run_1a2b3c4d --db runs.db > run.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("subcommand required")
	}

	store, err := archive.New(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	switch fs.Arg(0) {
	case "list":
		return listRuns(store, *limit)
	case "show":
		if fs.NArg() < 2 {
			return fmt.Errorf("run id required")
		}
		return showRun(store, fs.Arg(1))
	case "export":
		if fs.NArg() < 2 {
			return fmt.Errorf("run id required")
		}
		data, err := store.ExportRunJSON(fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	return fmt.Errorf("unknown subcommand %q", fs.Arg(0))
}

func listRuns(store *archive.Store, limit int) error {
	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Println("=== Archived Runs ===")
	for _, run := range runs {
		status := run.Status
		if run.FinishedAt == nil {
			status = "unfinished"
		}
		fmt.Printf("  %s  %s  seed=%d  iterations=%d  solutions=%d  [%s]\n",
			run.ID, run.Strategy, run.Seed, run.Iterations, run.SolutionsFound, status)
	}
	return nil
}

func showRun(store *archive.Store, runID string) error {
	run, err := store.GetRun(runID)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	solutions, err := store.GetSolutions(runID)
	if err != nil {
		return fmt.Errorf("load solutions: %w", err)
	}

	fmt.Printf("=== Run %s ===\n", run.ID)
	fmt.Printf("Strategy: %s, seed %d\n", run.Strategy, run.Seed)
	fmt.Printf("Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Printf("Finished: %s (%s)\n", run.FinishedAt.Format("2006-01-02 15:04:05"), run.Status)
	}
	fmt.Printf("Iterations: %d / %d, candidates evaluated: %d\n",
		run.Iterations, run.MaxIterations, run.CandidatesEvaluated)
	fmt.Printf("Solutions: %d\n", len(solutions))
	fmt.Println()

	for _, s := range solutions {
		fmt.Printf("  #%d %s  score=%.2f  components=%d relationships=%d variables=%d\n",
			s.Rank, s.SolutionID, s.Score, s.ComponentCount, s.RelationshipCount, s.VariableCount)
	}
	return nil
}
