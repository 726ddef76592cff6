package generate

import "fmt"

// GenerationError reports a failed structure generation or modification
// attempt. The engine recovers from it and moves to the next attempt.
// ConstraintID names the structural constraint the candidate missed, when
// the failure is attributable to one.
type GenerationError struct {
	Reason       string
	ConstraintID string
	Err          error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structure generation: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("structure generation: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// AssignmentError reports a failed variable assignment attempt.
type AssignmentError struct {
	Variable string
	Value    any
	Reason   string
	Err      error
}

func (e *AssignmentError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("variable assignment: %s (variable %q, value %v)", e.Reason, e.Variable, e.Value)
	}
	return fmt.Sprintf("variable assignment: %s", e.Reason)
}

func (e *AssignmentError) Unwrap() error { return e.Err }
