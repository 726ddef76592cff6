// Package evaluator checks candidate designs against a constraint set and
// reports violations as data rather than errors.
package evaluator

import (
	"fmt"

	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
)

// Result holds the outcome of evaluating one design.
type Result struct {
	IsValid    bool                   `json:"is_valid"`
	Violations []constraint.Violation `json:"violations"`
}

// SatisfactionRatio returns the share of constraints satisfied, given the
// total number checked. A zero total counts as fully satisfied.
func (r Result) SatisfactionRatio(total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(total-len(r.Violations)) / float64(total)
}

// Override replaces the built-in check for every constraint of one kind.
type Override func(c constraint.Constraint, d *design.Object) (bool, error)

// Evaluator runs a constraint set against design objects. Overrides are
// keyed by constraint kind and take precedence over the constraint's own
// IsSatisfied.
type Evaluator struct {
	set       *constraint.Set
	overrides map[constraint.Kind]Override
}

// New creates an evaluator over the given set. A nil set evaluates every
// design as valid.
func New(set *constraint.Set) *Evaluator {
	return &Evaluator{
		set:       set,
		overrides: make(map[constraint.Kind]Override),
	}
}

// SetConstraintSet replaces the constraint set.
func (e *Evaluator) SetConstraintSet(set *constraint.Set) {
	e.set = set
}

// RegisterOverride installs a custom check for one constraint kind,
// replacing any previous override for that kind.
func (e *Evaluator) RegisterOverride(kind constraint.Kind, fn Override) {
	e.overrides[kind] = fn
}

// UnregisterOverride removes the override for a kind. It reports whether
// one was installed.
func (e *Evaluator) UnregisterOverride(kind constraint.Kind) bool {
	if _, ok := e.overrides[kind]; !ok {
		return false
	}
	delete(e.overrides, kind)
	return true
}

// RegisteredOverrides returns the kinds that currently have an override.
func (e *Evaluator) RegisteredOverrides() []constraint.Kind {
	kinds := make([]constraint.Kind, 0, len(e.overrides))
	for k := range e.overrides {
		kinds = append(kinds, k)
	}
	return kinds
}

// Evaluate checks every constraint against the design. A check that fails
// with an error counts as unsatisfied; evaluation never aborts part-way.
func (e *Evaluator) Evaluate(d *design.Object) Result {
	if e.set == nil {
		return Result{IsValid: true, Violations: []constraint.Violation{}}
	}
	return e.evaluateList(e.set.All(), d)
}

// EvaluateCategory checks only the constraints of one category.
func (e *Evaluator) EvaluateCategory(d *design.Object, cat constraint.Category) Result {
	if e.set == nil {
		return Result{IsValid: true, Violations: []constraint.Violation{}}
	}
	return e.evaluateList(e.set.ByCategory(cat), d)
}

// Satisfied runs a single constraint through any registered override and
// maps check errors to unsatisfied.
func (e *Evaluator) Satisfied(c constraint.Constraint, d *design.Object) bool {
	if fn, ok := e.overrides[c.Kind()]; ok {
		ok, err := fn(c, d)
		return err == nil && ok
	}
	ok, err := c.IsSatisfied(d)
	return err == nil && ok
}

// ConstraintCount returns the number of constraints the evaluator checks.
func (e *Evaluator) ConstraintCount() int {
	if e.set == nil {
		return 0
	}
	return e.set.Len()
}

func (e *Evaluator) evaluateList(constraints []constraint.Constraint, d *design.Object) Result {
	violations := []constraint.Violation{}
	for _, c := range constraints {
		if e.Satisfied(c, d) {
			continue
		}
		violations = append(violations, constraint.Violation{
			ConstraintID: c.ID(),
			Kind:         c.Kind(),
			Category:     c.Category(),
			Message:      violationMessage(c, d),
			Severity:     constraint.SeverityError,
			Context:      violationContext(c, d),
		})
	}
	return Result{IsValid: len(violations) == 0, Violations: violations}
}

// violationMessage falls back to a generic message when the constraint
// cannot describe the failure itself.
func violationMessage(c constraint.Constraint, d *design.Object) string {
	if msg := c.ViolationMessage(d); msg != "" {
		return msg
	}
	return fmt.Sprintf("constraint %s is violated", c.ID())
}

func violationContext(c constraint.Constraint, d *design.Object) map[string]any {
	return map[string]any{
		"constraint_id":          c.ID(),
		"constraint_description": c.Description(),
		"design_object_id":       d.ID,
		"component_count":        len(d.Structure.Components),
		"relationship_count":     len(d.Structure.Relationships),
		"variable_count":         len(d.Variables.Values),
	}
}

// Summary aggregates one evaluation for reporting.
type Summary struct {
	IsValid              bool                        `json:"is_valid"`
	TotalViolations      int                         `json:"total_violations"`
	ViolationsByKind     map[constraint.Kind]int     `json:"violations_by_kind"`
	ViolationsBySeverity map[constraint.Severity]int `json:"violations_by_severity"`
}

// Summarize evaluates the design and buckets its violations by kind and
// severity.
func (e *Evaluator) Summarize(d *design.Object) Summary {
	result := e.Evaluate(d)
	s := Summary{
		IsValid:              result.IsValid,
		TotalViolations:      len(result.Violations),
		ViolationsByKind:     make(map[constraint.Kind]int),
		ViolationsBySeverity: make(map[constraint.Severity]int),
	}
	for _, v := range result.Violations {
		s.ViolationsByKind[v.Kind]++
		s.ViolationsBySeverity[v.Severity]++
	}
	return s
}
