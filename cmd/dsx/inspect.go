package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dsxplore/go-dsx/results"
)

func inspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	top := fs.Int("top", 5, "Number of solutions to show")
	objective := fs.String("rank-by", "", "Re-rank solutions by objective before display")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: dsx inspect <report.json> [options]

Display a summary of an exploration report: run counters, solution ranking
and population statistics.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Objectives for --rank-by:
`)
		names := make([]string, 0, len(results.Objectives))
		for name := range results.Objectives {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("report file required")
	}

	report, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return err
	}

	solutions := append([]results.Solution(nil), report.Solutions...)
	if *objective != "" {
		if err := results.RankBy(solutions, *objective); err != nil {
			return err
		}
	}

	fmt.Println("=== Exploration Report ===")
	fmt.Printf("Status: %s", report.Metadata.Status)
	if report.Metadata.Error != "" {
		fmt.Printf(" (%s)", report.Metadata.Error)
	}
	fmt.Println()
	fmt.Printf("Strategy: %s, seed %d\n", report.Run.Strategy, report.Run.Seed)
	fmt.Printf("Iterations: %d / %d, candidates evaluated: %d\n",
		report.Run.Iterations, report.Run.MaxIterations, report.Run.CandidatesEvaluated)
	fmt.Printf("Solutions: %d\n", len(solutions))
	fmt.Println()

	shown := solutions
	if *top > 0 && len(shown) > *top {
		shown = shown[:*top]
	}
	for _, s := range shown {
		fmt.Printf("  #%d %s  score=%.2f  components=%d relationships=%d variables=%d\n",
			s.Rank, s.ID, s.Score, s.ComponentCount, s.RelationshipCount, s.VariableCount)
	}
	if len(solutions) > len(shown) {
		fmt.Printf("  ... %d more\n", len(solutions)-len(shown))
	}

	if a := report.Analysis; a != nil {
		fmt.Println()
		fmt.Println("Statistics:")
		fmt.Printf("  Components:    min=%.0f max=%.0f mean=%.1f\n", a.Components.Min, a.Components.Max, a.Components.Mean)
		fmt.Printf("  Relationships: min=%.0f max=%.0f mean=%.1f\n", a.Relationships.Min, a.Relationships.Max, a.Relationships.Mean)
		fmt.Printf("  Scores:        min=%.2f max=%.2f mean=%.2f\n", a.Scores.Min, a.Scores.Max, a.Scores.Mean)

		if len(a.TypeFrequencies) > 0 {
			fmt.Println("  Component types:")
			types := make([]string, 0, len(a.TypeFrequencies))
			for typ := range a.TypeFrequencies {
				types = append(types, typ)
			}
			sort.Strings(types)
			for _, typ := range types {
				fmt.Printf("    %s: %d\n", typ, a.TypeFrequencies[typ])
			}
		}
		if len(a.ViolatedTop) > 0 {
			fmt.Println("  Most violated constraints:")
			for _, v := range a.ViolatedTop {
				fmt.Printf("    %s: %d violations\n", v.ConstraintID, v.Count)
			}
		}
		for key, hint := range a.Recommended {
			fmt.Printf("  Hint (%s): %s\n", key, hint)
		}
	}
	return nil
}
