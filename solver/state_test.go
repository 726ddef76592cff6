package solver

import (
	"testing"

	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
)

func stateCandidate(id string) *design.Object {
	s := design.NewStructure()
	s.AddComponent(design.Component{ID: "c1", Type: "processor"})
	s.AddComponent(design.Component{ID: "c2", Type: "memory"})
	return design.NewObject(id, s, nil, nil)
}

func TestStateRecordEvaluation(t *testing.T) {
	state := NewExplorationState()
	state.RecordIteration()

	violations := []constraint.Violation{
		{ConstraintID: "count", Message: "too few components"},
		{ConstraintID: "range", Message: "value out of range"},
		{ConstraintID: "count", Message: "too few components"},
	}
	state.RecordEvaluation(stateCandidate("cand_1"), false, 1.5, violations)

	if state.CandidatesEvaluated != 1 {
		t.Fatalf("CandidatesEvaluated = %d", state.CandidatesEvaluated)
	}
	if state.ViolationCounts["count"] != 2 || state.ViolationCounts["range"] != 1 {
		t.Fatalf("ViolationCounts = %v", state.ViolationCounts)
	}
	if state.RecentViolations.Len() != 3 {
		t.Fatalf("RecentViolations = %d", state.RecentViolations.Len())
	}
	snapshot, ok := state.CandidateSnapshots.Last()
	if !ok || snapshot.ID != "cand_1" || snapshot.ComponentCount != 2 || snapshot.IsValid {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestStateMostViolatedConstraints(t *testing.T) {
	state := NewExplorationState()
	state.ViolationCounts = map[string]int{"a": 3, "b": 7, "c": 1, "d": 7}

	top := state.MostViolatedConstraints(2)
	if len(top) != 2 {
		t.Fatalf("len = %d", len(top))
	}
	// Ties break by id so the order is stable.
	if top[0].ConstraintID != "b" || top[1].ConstraintID != "d" {
		t.Fatalf("top = %v", top)
	}
}

func TestStateHistoryBounded(t *testing.T) {
	state := NewExplorationState()
	for i := 0; i < decisionHistory*2; i++ {
		state.RecordDecision(DecisionEntry{Type: "noop"})
	}
	if state.DecisionTrace.Len() != decisionHistory {
		t.Fatalf("DecisionTrace = %d, want %d", state.DecisionTrace.Len(), decisionHistory)
	}

	for i := 0; i < bestCandidateHistory+5; i++ {
		state.RecordSolution("s", float64(i))
	}
	if state.BestCandidates.Len() != bestCandidateHistory {
		t.Fatalf("BestCandidates = %d, want %d", state.BestCandidates.Len(), bestCandidateHistory)
	}
}

func TestStateComponentPerformance(t *testing.T) {
	state := NewExplorationState()
	state.RecordComponentPerformance("processor", 2.0)
	state.RecordComponentPerformance("processor", 4.0)
	state.RecordComponentPerformance("memory", 1.0)

	avg := state.AveragePerformance()
	if avg["processor"] != 3.0 {
		t.Fatalf("processor average = %f", avg["processor"])
	}
	if avg["memory"] != 1.0 {
		t.Fatalf("memory average = %f", avg["memory"])
	}
}

func TestStateProgressAndReset(t *testing.T) {
	state := NewExplorationState()
	state.RecordIteration()
	state.RecordIteration()
	state.RecordEvaluation(stateCandidate("c"), true, 7.0, nil)
	state.RecordSolution("c", 7.0)

	p := state.Progress()
	if p.Iterations != 2 || p.SolutionsFound != 1 || p.CandidatesEvaluated != 1 {
		t.Fatalf("Progress = %+v", p)
	}

	state.Reset()
	p = state.Progress()
	if p.Iterations != 0 || p.SolutionsFound != 0 || p.CandidatesEvaluated != 0 {
		t.Fatalf("Progress after Reset = %+v", p)
	}
	if state.CandidateSnapshots.Len() != 0 || len(state.ViolationCounts) != 0 {
		t.Fatal("histories survived Reset")
	}
}
