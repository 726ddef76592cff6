package results

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/solver"
	"github.com/dsxplore/go-dsx/variable"
)

func sampleDesign(id string, types ...string) *design.Object {
	s := design.NewStructure()
	for i, typ := range types {
		s.AddComponent(design.Component{ID: string(rune('a' + i)), Type: typ})
	}
	if len(types) >= 2 {
		s.AddRelationship(design.Relationship{ID: "r1", SourceID: "a", TargetID: "b", Type: "connects_to"})
	}
	vars := variable.NewAssignment()
	vars.Set("a.capacity", 4)
	return design.NewObject(id, s, vars, nil)
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	scores := map[string]float64{"sol_1": 7.5, "sol_2": 6.0, "sol_3": 8.0}
	report := NewBuilder().
		WithRun(solver.DefaultConfig(), solver.Progress{Iterations: 40, CandidatesEvaluated: 40, SolutionsFound: 3}, 2).
		WithSolutions([]*design.Object{
			sampleDesign("sol_1", "processor", "memory"),
			sampleDesign("sol_2", "processor"),
			sampleDesign("sol_3", "processor", "memory", "storage"),
		}, func(id string) (float64, bool) {
			score, ok := scores[id]
			return score, ok
		}).
		WithViolations([]solver.ConstraintCount{{ConstraintID: "count", Count: 12}}).
		Build()
	return report
}

func TestBuilderRanksSolutions(t *testing.T) {
	report := sampleReport(t)

	if len(report.Solutions) != 3 {
		t.Fatalf("solutions = %d", len(report.Solutions))
	}
	if report.Solutions[0].ID != "sol_3" || report.Solutions[0].Rank != 1 {
		t.Fatalf("best = %+v", report.Solutions[0])
	}
	if report.Solutions[2].ID != "sol_2" || report.Solutions[2].Rank != 3 {
		t.Fatalf("worst = %+v", report.Solutions[2])
	}
	if report.Run.Iterations != 40 || report.Run.ConstraintCount != 2 {
		t.Fatalf("run info = %+v", report.Run)
	}
	if report.Metadata.Status != "success" {
		t.Fatalf("status = %s", report.Metadata.Status)
	}
}

func TestBuilderAnalysis(t *testing.T) {
	report := sampleReport(t)
	a := report.Analysis
	if a == nil {
		t.Fatal("no analysis computed")
	}

	// Component counts are 2, 1 and 3.
	if a.Components.Min != 1 || a.Components.Max != 3 || a.Components.Mean != 2 || a.Components.Median != 2 {
		t.Fatalf("components stat = %+v", a.Components)
	}
	if a.TypeFrequencies["processor"] != 3 || a.TypeFrequencies["memory"] != 2 {
		t.Fatalf("type frequencies = %v", a.TypeFrequencies)
	}
	if a.EdgeFrequencies["connects_to"] != 2 {
		t.Fatalf("edge frequencies = %v", a.EdgeFrequencies)
	}
	if len(a.ViolatedTop) != 1 || a.ViolatedTop[0].ConstraintID != "count" {
		t.Fatalf("violated top = %v", a.ViolatedTop)
	}
	if a.Recommended["best_solution"] == "" || a.Recommended["dominant_type"] == "" {
		t.Fatalf("recommendations = %v", a.Recommended)
	}
}

func TestBuilderWithError(t *testing.T) {
	report := NewBuilder().WithError(errors.New("generation stalled")).Build()
	if report.Metadata.Status != "error" || report.Metadata.Error != "generation stalled" {
		t.Fatalf("metadata = %+v", report.Metadata)
	}
}

func TestEmptyReportRecommendsBlockingConstraint(t *testing.T) {
	report := NewBuilder().
		WithViolations([]solver.ConstraintCount{{ConstraintID: "impossible", Count: 50}}).
		Build()
	if report.Analysis.Recommended["blocking_constraint"] == "" {
		t.Fatalf("recommendations = %v", report.Analysis.Recommended)
	}
}

func TestCompare(t *testing.T) {
	report := sampleReport(t)
	// sol_3 (processor, memory, storage) vs sol_2 (processor).
	c := Compare(report.Solutions[0], report.Solutions[2])

	if c.ComponentDelta != 2 {
		t.Fatalf("ComponentDelta = %d", c.ComponentDelta)
	}
	if c.ScoreDelta != 2.0 {
		t.Fatalf("ScoreDelta = %f", c.ScoreDelta)
	}
	if len(c.SharedTypes) != 1 || c.SharedTypes[0] != "processor" {
		t.Fatalf("SharedTypes = %v", c.SharedTypes)
	}
	if len(c.OnlyInFirst) != 2 {
		t.Fatalf("OnlyInFirst = %v", c.OnlyInFirst)
	}
	if len(c.OnlyInSecond) != 0 {
		t.Fatalf("OnlyInSecond = %v", c.OnlyInSecond)
	}
}

func TestRankBy(t *testing.T) {
	report := sampleReport(t)
	solutions := append([]Solution(nil), report.Solutions...)

	if err := RankBy(solutions, "minimize_components"); err != nil {
		t.Fatalf("RankBy: %v", err)
	}
	if solutions[0].ID != "sol_2" || solutions[0].Rank != 1 {
		t.Fatalf("smallest first: %+v", solutions[0])
	}

	if err := RankBy(solutions, "maximize_score"); err != nil {
		t.Fatalf("RankBy: %v", err)
	}
	if solutions[0].ID != "sol_3" {
		t.Fatalf("highest score first: %+v", solutions[0])
	}

	if err := RankBy(solutions, "minimize_entropy"); err == nil {
		t.Fatal("unknown objective accepted")
	}
}

func TestBest(t *testing.T) {
	report := sampleReport(t)
	best, ok := Best(report.Solutions)
	if !ok || best.ID != "sol_3" {
		t.Fatalf("Best = %+v, %v", best, ok)
	}
	if _, ok := Best(nil); ok {
		t.Fatal("Best on empty slice reported ok")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), "report.json")

	if err := report.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	loaded, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if loaded.Version != SchemaVersion {
		t.Fatalf("version = %s", loaded.Version)
	}
	if len(loaded.Solutions) != len(report.Solutions) {
		t.Fatalf("solutions = %d", len(loaded.Solutions))
	}
	if loaded.Solutions[0].ID != report.Solutions[0].ID {
		t.Fatalf("order changed: %s", loaded.Solutions[0].ID)
	}
	if loaded.Solutions[0].Design == nil || len(loaded.Solutions[0].Design.Structure.Components) != 3 {
		t.Fatal("embedded design lost in round trip")
	}
}
