package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dsxplore/go-dsx/archive"
	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/results"
	"github.com/dsxplore/go-dsx/solver"
)

func solve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	configFile := fs.String("config", "", "Configuration file (.json, .yaml)")
	preset := fs.String("preset", "", "Configuration preset: fast, thorough, balanced, debug")
	strategy := fs.String("strategy", "", "Override exploration strategy")
	iterations := fs.Int("iterations", 0, "Override max iterations")
	solutions := fs.Int("solutions", 0, "Override max solutions")
	seed := fs.Int64("seed", 0, "Override random seed")
	outputFile := fs.String("output", "", "Write the report JSON to file")
	archiveDB := fs.String("archive", "", "Archive the run in a SQLite database")
	quiet := fs.Bool("quiet", false, "Disable exploration logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: dsx solve [constraints.json] [options]

Explore the design space bounded by the constraint file and report valid
solutions. Without a constraint file every generated candidate is valid.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Explore with defaults
  dsx solve constraints.json

  # Fast preset, save the report
  dsx solve constraints.json --preset fast --output report.json

  # Score-guided search with a fixed seed
  dsx solve constraints.json --strategy best_first --seed 42

  # Archive the run
  dsx solve constraints.json --archive runs.db
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveConfig(*configFile, *preset)
	if err != nil {
		return err
	}
	if *strategy != "" {
		cfg.ExplorationStrategy = *strategy
	}
	if *iterations > 0 {
		cfg.MaxIterations = *iterations
	}
	if *solutions > 0 {
		cfg.MaxSolutions = *solutions
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *quiet {
		cfg.EnableLogging = false
	}

	set := constraint.NewSet()
	if fs.NArg() > 0 {
		set, err = loadConstraints(fs.Arg(0))
		if err != nil {
			return err
		}
	}

	engine, err := solver.New(cfg, set)
	if err != nil {
		return err
	}

	start := time.Now()
	found, err := engine.Solve()
	builder := results.NewBuilder().
		WithRun(cfg, engine.State().Progress(), set.Len()).
		WithViolations(engine.State().MostViolatedConstraints(5))
	if err != nil {
		builder.WithError(err)
	} else {
		builder.WithSolutions(found, engine.Score)
	}
	report := builder.Build()

	printSolveSummary(report, time.Since(start))

	if *outputFile != "" {
		if err := report.WriteJSON(*outputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}

	if *archiveDB != "" {
		store, err := archive.New(*archiveDB)
		if err != nil {
			return err
		}
		defer store.Close()
		runID := fmt.Sprintf("run_%s", uuid.NewString()[:8])
		if err := store.SaveReport(runID, cfg, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run archived as %s in %s\n", runID, *archiveDB)
	}

	return err
}

func resolveConfig(configFile, preset string) (solver.Config, error) {
	if configFile != "" && preset != "" {
		return solver.Config{}, fmt.Errorf("--config and --preset are mutually exclusive")
	}
	if configFile != "" {
		return solver.LoadConfig(configFile)
	}
	switch preset {
	case "":
		return solver.DefaultConfig(), nil
	case "fast":
		return solver.FastConfig(), nil
	case "thorough":
		return solver.ThoroughConfig(), nil
	case "balanced":
		return solver.BalancedConfig(), nil
	case "debug":
		return solver.DebugConfig(), nil
	}
	return solver.Config{}, fmt.Errorf("unknown preset %q", preset)
}

func printSolveSummary(report *results.Report, elapsed time.Duration) {
	fmt.Println("=== Design Space Exploration ===")
	fmt.Printf("Strategy: %s\n", report.Run.Strategy)
	fmt.Printf("Iterations: %d / %d\n", report.Run.Iterations, report.Run.MaxIterations)
	fmt.Printf("Candidates evaluated: %d\n", report.Run.CandidatesEvaluated)
	fmt.Printf("Solutions found: %d (max %d)\n", len(report.Solutions), report.Run.MaxSolutions)
	fmt.Printf("Elapsed: %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	for _, s := range report.Solutions {
		fmt.Printf("  #%d %s  score=%.2f  components=%d relationships=%d variables=%d\n",
			s.Rank, s.ID, s.Score, s.ComponentCount, s.RelationshipCount, s.VariableCount)
	}
	if len(report.Solutions) == 0 {
		fmt.Println("  No solutions found.")
		if report.Analysis != nil && len(report.Analysis.ViolatedTop) > 0 {
			fmt.Println("  Most violated constraints:")
			for _, v := range report.Analysis.ViolatedTop {
				fmt.Printf("    %s: %d violations\n", v.ConstraintID, v.Count)
			}
		}
	}
}
