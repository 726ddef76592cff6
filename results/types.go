// Package results defines the structured output format for exploration runs
package results

import (
	"time"

	"github.com/dsxplore/go-dsx/design"
)

const SchemaVersion = "1.0.0"

// Report contains complete exploration output
type Report struct {
	Version   string     `json:"version"`
	Metadata  Metadata   `json:"metadata"`
	Run       RunInfo    `json:"run"`
	Solutions []Solution `json:"solutions"`
	Analysis  *Analysis  `json:"analysis,omitempty"`
}

// Metadata contains run execution information
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"` // success, error
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// RunInfo summarizes the exploration that produced the report
type RunInfo struct {
	Strategy            string `json:"strategy"`
	MaxIterations       int    `json:"maxIterations"`
	MaxSolutions        int    `json:"maxSolutions"`
	Iterations          int    `json:"iterations"`
	CandidatesEvaluated int    `json:"candidatesEvaluated"`
	ConstraintCount     int    `json:"constraintCount"`
	Seed                int64  `json:"seed"`
}

// Solution is one valid design found during exploration
type Solution struct {
	ID                string         `json:"id"`
	Score             float64        `json:"score"`
	Rank              int            `json:"rank"`
	ComponentCount    int            `json:"componentCount"`
	RelationshipCount int            `json:"relationshipCount"`
	VariableCount     int            `json:"variableCount"`
	ComponentTypes    map[string]int `json:"componentTypes,omitempty"`
	Design            *design.Object `json:"design"`
}

// Analysis contains automatically computed insights
type Analysis struct {
	Components      Stat              `json:"components"`
	Relationships   Stat              `json:"relationships"`
	Variables       Stat              `json:"variables"`
	Scores          Stat              `json:"scores"`
	TypeFrequencies map[string]int    `json:"typeFrequencies,omitempty"`
	EdgeFrequencies map[string]int    `json:"edgeFrequencies,omitempty"`
	ViolatedTop     []ViolationTally  `json:"violatedTop,omitempty"`
	Recommended     map[string]string `json:"recommended,omitempty"`
}

// ViolationTally counts how often a constraint blocked candidates
type ViolationTally struct {
	ConstraintID string `json:"constraintId"`
	Count        int    `json:"count"`
}

// Stat contains statistical summary
type Stat struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Total  float64 `json:"total"`
}
