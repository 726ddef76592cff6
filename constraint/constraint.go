// Package constraint defines the constraint contract and the built-in
// constraint types checked against candidate designs.
package constraint

import (
	"fmt"

	"github.com/dsxplore/go-dsx/design"
)

// Category partitions constraints by what part of a design they inspect.
type Category string

const (
	Structural Category = "structural"
	Variable   Category = "variable"
	Global     Category = "global"
)

// Kind identifies the concrete constraint type. Evaluator overrides are
// registered per Kind.
type Kind string

const (
	KindComponentCount      Kind = "component_count"
	KindVariableRange       Kind = "variable_range"
	KindComponentProperty   Kind = "component_property"
	KindRelationshipPattern Kind = "relationship_pattern"
	KindConnectivity        Kind = "connectivity"
	KindResource            Kind = "resource"
	KindVariableDependency  Kind = "variable_dependency"
)

// Severity of a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Constraint is one checkable condition on a design. IsSatisfied returns an
// error only when the check itself cannot be carried out; the evaluator
// treats that as unsatisfied.
type Constraint interface {
	ID() string
	Description() string
	Category() Category
	Kind() Kind
	IsSatisfied(d *design.Object) (bool, error)
	ViolationMessage(d *design.Object) string
}

// ComponentBoundProvider is implemented by constraints that bound the number
// of components in a structure. Generators consult it to size candidates.
type ComponentBoundProvider interface {
	MinComponents() (int, bool)
	MaxComponents() (int, bool)
}

// Violation records one failed constraint check.
type Violation struct {
	ConstraintID string         `json:"constraint_id"`
	Kind         Kind           `json:"kind"`
	Category     Category       `json:"category"`
	Message      string         `json:"message"`
	Severity     Severity       `json:"severity"`
	Context      map[string]any `json:"context,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s %q: %s", v.Severity, v.Kind, v.ConstraintID, v.Message)
}
