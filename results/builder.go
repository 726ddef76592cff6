package results

import (
	"time"

	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/solver"
)

// Builder helps construct a Report from exploration output
type Builder struct {
	report Report
}

// NewBuilder creates a new report builder
func NewBuilder() *Builder {
	return &Builder{
		report: Report{
			Version: SchemaVersion,
			Metadata: Metadata{
				Timestamp: time.Now(),
				Status:    "success",
			},
		},
	}
}

// WithRun sets run information from the config and the final progress
func (b *Builder) WithRun(cfg solver.Config, progress solver.Progress, constraintCount int) *Builder {
	b.report.Run = RunInfo{
		Strategy:            cfg.ExplorationStrategy,
		MaxIterations:       cfg.MaxIterations,
		MaxSolutions:        cfg.MaxSolutions,
		Iterations:          progress.Iterations,
		CandidatesEvaluated: progress.CandidatesEvaluated,
		ConstraintCount:     constraintCount,
		Seed:                cfg.Seed,
	}
	b.report.Metadata.ComputeTime = progress.Elapsed.Seconds()
	return b
}

// WithSolutions adds the found designs. The score function maps a design id
// to its exploration score; solutions are ranked best-first.
func (b *Builder) WithSolutions(solutions []*design.Object, score func(id string) (float64, bool)) *Builder {
	entries := make([]Solution, 0, len(solutions))
	for _, d := range solutions {
		entry := Solution{
			ID:                d.ID,
			ComponentCount:    len(d.Structure.Components),
			RelationshipCount: len(d.Structure.Relationships),
			VariableCount:     len(d.Variables.Values),
			ComponentTypes:    make(map[string]int),
			Design:            d,
		}
		if score != nil {
			entry.Score, _ = score(d.ID)
		}
		for _, comp := range d.Structure.Components {
			entry.ComponentTypes[comp.Type]++
		}
		entries = append(entries, entry)
	}
	RankSolutions(entries)
	b.report.Solutions = entries
	return b
}

// WithViolations records the most frequently violated constraints
func (b *Builder) WithViolations(top []solver.ConstraintCount) *Builder {
	if len(top) == 0 {
		return b
	}
	if b.report.Analysis == nil {
		b.report.Analysis = &Analysis{}
	}
	tallies := make([]ViolationTally, 0, len(top))
	for _, c := range top {
		tallies = append(tallies, ViolationTally{ConstraintID: c.ConstraintID, Count: c.Count})
	}
	b.report.Analysis.ViolatedTop = tallies
	return b
}

// WithError sets error status
func (b *Builder) WithError(err error) *Builder {
	b.report.Metadata.Status = "error"
	b.report.Metadata.Error = err.Error()
	return b
}

// Build computes the analysis and returns the constructed Report
func (b *Builder) Build() *Report {
	analysis := NewAnalyzer(&b.report).ComputeAll()
	if b.report.Analysis != nil {
		analysis.ViolatedTop = b.report.Analysis.ViolatedTop
	}
	b.report.Analysis = analysis
	return &b.report
}
