package solver

import (
	"sort"
	"time"

	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
)

// History capacities. Long runs keep only the recent tail of each stream.
const (
	bestCandidateHistory = 10
	snapshotHistory      = 100
	violationHistory     = 50
	decisionHistory      = 200
	performanceHistory   = 100
)

// ScoredCandidate records a candidate id with the score it earned.
type ScoredCandidate struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Iteration int     `json:"iteration"`
}

// CandidateSnapshot is a compact record of one evaluated candidate.
type CandidateSnapshot struct {
	ID                string    `json:"id"`
	Iteration         int       `json:"iteration"`
	ComponentCount    int       `json:"component_count"`
	RelationshipCount int       `json:"relationship_count"`
	VariableCount     int       `json:"variable_count"`
	IsValid           bool      `json:"is_valid"`
	Score             float64   `json:"score"`
	Timestamp         time.Time `json:"timestamp"`
}

// ViolationRecord ties a violation to the candidate and iteration that
// produced it.
type ViolationRecord struct {
	Iteration   int                  `json:"iteration"`
	CandidateID string               `json:"candidate_id"`
	Violation   constraint.Violation `json:"violation"`
}

// DecisionEntry traces one strategy decision for later inspection.
type DecisionEntry struct {
	Step      int            `json:"step"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Outcome   string         `json:"outcome"`
	Reasoning string         `json:"reasoning,omitempty"`
}

// ConstraintCount pairs a constraint id with its violation tally.
type ConstraintCount struct {
	ConstraintID string `json:"constraint_id"`
	Count        int    `json:"count"`
}

// ExplorationState accumulates everything a run learns: counters, bounded
// histories and per-constraint violation tallies. It is not safe for
// concurrent use; the engine serializes access.
type ExplorationState struct {
	IterationCount      int
	SolutionsFound      int
	CandidatesEvaluated int

	BestCandidates     *Ring[ScoredCandidate]
	CandidateSnapshots *Ring[CandidateSnapshot]
	RecentViolations   *Ring[ViolationRecord]
	DecisionTrace      *Ring[DecisionEntry]

	ViolationCounts      map[string]int
	ComponentPerformance map[string]*Ring[float64]

	StartedAt time.Time
}

// NewExplorationState creates an empty state.
func NewExplorationState() *ExplorationState {
	return &ExplorationState{
		BestCandidates:       NewRing[ScoredCandidate](bestCandidateHistory),
		CandidateSnapshots:   NewRing[CandidateSnapshot](snapshotHistory),
		RecentViolations:     NewRing[ViolationRecord](violationHistory),
		DecisionTrace:        NewRing[DecisionEntry](decisionHistory),
		ViolationCounts:      make(map[string]int),
		ComponentPerformance: make(map[string]*Ring[float64]),
		StartedAt:            time.Now(),
	}
}

// RecordIteration advances the iteration counter and returns its new value.
func (s *ExplorationState) RecordIteration() int {
	s.IterationCount++
	return s.IterationCount
}

// RecordEvaluation stores a snapshot of an evaluated candidate and tallies
// its violations.
func (s *ExplorationState) RecordEvaluation(d *design.Object, valid bool, score float64, violations []constraint.Violation) {
	s.CandidatesEvaluated++
	s.CandidateSnapshots.Push(CandidateSnapshot{
		ID:                d.ID,
		Iteration:         s.IterationCount,
		ComponentCount:    len(d.Structure.Components),
		RelationshipCount: len(d.Structure.Relationships),
		VariableCount:     len(d.Variables.Values),
		IsValid:           valid,
		Score:             score,
		Timestamp:         time.Now(),
	})
	for _, v := range violations {
		s.ViolationCounts[v.ConstraintID]++
		s.RecentViolations.Push(ViolationRecord{
			Iteration:   s.IterationCount,
			CandidateID: d.ID,
			Violation:   v,
		})
	}
}

// RecordViolation tallies a single violation outside of a full candidate
// evaluation, such as a structural miss during generation.
func (s *ExplorationState) RecordViolation(candidateID string, v constraint.Violation) {
	s.ViolationCounts[v.ConstraintID]++
	s.RecentViolations.Push(ViolationRecord{
		Iteration:   s.IterationCount,
		CandidateID: candidateID,
		Violation:   v,
	})
}

// RecordSolution counts a found solution and remembers its score.
func (s *ExplorationState) RecordSolution(id string, score float64) {
	s.SolutionsFound++
	s.BestCandidates.Push(ScoredCandidate{ID: id, Score: score, Iteration: s.IterationCount})
}

// RecordDecision appends a strategy decision to the trace.
func (s *ExplorationState) RecordDecision(entry DecisionEntry) {
	entry.Step = s.IterationCount
	s.DecisionTrace.Push(entry)
}

// RecordComponentPerformance tracks how a component type scores across
// candidates.
func (s *ExplorationState) RecordComponentPerformance(componentType string, score float64) {
	ring, ok := s.ComponentPerformance[componentType]
	if !ok {
		ring = NewRing[float64](performanceHistory)
		s.ComponentPerformance[componentType] = ring
	}
	ring.Push(score)
}

// AveragePerformance returns the mean recorded score per component type.
func (s *ExplorationState) AveragePerformance() map[string]float64 {
	out := make(map[string]float64, len(s.ComponentPerformance))
	for typ, ring := range s.ComponentPerformance {
		items := ring.Items()
		if len(items) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range items {
			sum += v
		}
		out[typ] = sum / float64(len(items))
	}
	return out
}

// MostViolatedConstraints returns the n constraints violated most often,
// most-violated first.
func (s *ExplorationState) MostViolatedConstraints(n int) []ConstraintCount {
	counts := make([]ConstraintCount, 0, len(s.ViolationCounts))
	for id, count := range s.ViolationCounts {
		counts = append(counts, ConstraintCount{ConstraintID: id, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].ConstraintID < counts[j].ConstraintID
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Progress summarizes the run so far.
type Progress struct {
	Iterations          int           `json:"iterations"`
	SolutionsFound      int           `json:"solutions_found"`
	CandidatesEvaluated int           `json:"candidates_evaluated"`
	TotalViolations     int           `json:"total_violations"`
	Elapsed             time.Duration `json:"elapsed"`
}

// Progress returns the current counters.
func (s *ExplorationState) Progress() Progress {
	total := 0
	for _, count := range s.ViolationCounts {
		total += count
	}
	return Progress{
		Iterations:          s.IterationCount,
		SolutionsFound:      s.SolutionsFound,
		CandidatesEvaluated: s.CandidatesEvaluated,
		TotalViolations:     total,
		Elapsed:             time.Since(s.StartedAt),
	}
}

// Reset returns the state to empty, keeping the configured capacities.
func (s *ExplorationState) Reset() {
	s.IterationCount = 0
	s.SolutionsFound = 0
	s.CandidatesEvaluated = 0
	s.BestCandidates.Clear()
	s.CandidateSnapshots.Clear()
	s.RecentViolations.Clear()
	s.DecisionTrace.Clear()
	s.ViolationCounts = make(map[string]int)
	s.ComponentPerformance = make(map[string]*Ring[float64])
	s.StartedAt = time.Now()
}
