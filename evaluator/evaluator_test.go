package evaluator

import (
	"errors"
	"testing"

	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/variable"
)

func twoComponentDesign(t *testing.T) *design.Object {
	t.Helper()
	s := design.NewStructure()
	s.AddComponent(design.Component{ID: "a", Type: "processor"})
	s.AddComponent(design.Component{ID: "b", Type: "memory"})
	vars := variable.NewAssignment()
	vars.Set("cores", 4)
	return design.NewObject("d-1", s, vars, nil)
}

// brokenConstraint always fails its own check with an error.
type brokenConstraint struct{ id string }

func (c brokenConstraint) ID() string                    { return c.id }
func (c brokenConstraint) Description() string           { return "always errors" }
func (c brokenConstraint) Category() constraint.Category { return constraint.Global }
func (c brokenConstraint) Kind() constraint.Kind         { return "broken" }
func (c brokenConstraint) IsSatisfied(d *design.Object) (bool, error) {
	return true, errors.New("check blew up")
}
func (c brokenConstraint) ViolationMessage(d *design.Object) string { return "" }

func TestEvaluateNilSetIsValid(t *testing.T) {
	result := New(nil).Evaluate(twoComponentDesign(t))
	if !result.IsValid || len(result.Violations) != 0 {
		t.Fatalf("nil set: %+v", result)
	}
}

func TestEvaluateCollectsAllViolations(t *testing.T) {
	set := constraint.NewSet(
		constraint.NewComponentCount("count", 5, 10),
		constraint.NewVariableRange("range", "cores", constraint.Float(10), nil),
		constraint.NewResource("res", "power", 1000),
	)
	result := New(set).Evaluate(twoComponentDesign(t))

	if result.IsValid {
		t.Fatal("violated design reported valid")
	}
	if len(result.Violations) != 2 {
		t.Fatalf("violations = %d, want 2: %v", len(result.Violations), result.Violations)
	}
	for _, v := range result.Violations {
		if v.Severity != constraint.SeverityError {
			t.Fatalf("severity = %s", v.Severity)
		}
		if v.Context["design_object_id"] != "d-1" {
			t.Fatalf("context missing design id: %v", v.Context)
		}
		if v.Context["component_count"] != 2 {
			t.Fatalf("context component_count = %v", v.Context["component_count"])
		}
	}
}

func TestEvaluateFailsClosedOnCheckError(t *testing.T) {
	set := constraint.NewSet(brokenConstraint{id: "boom"})
	result := New(set).Evaluate(twoComponentDesign(t))

	if result.IsValid {
		t.Fatal("erroring constraint reported satisfied")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("violations = %d", len(result.Violations))
	}
	// The constraint gave no message, so the fallback applies.
	if got := result.Violations[0].Message; got != "constraint boom is violated" {
		t.Fatalf("message = %q", got)
	}
}

func TestEvaluateCategory(t *testing.T) {
	set := constraint.NewSet(
		constraint.NewComponentCount("count", 5, 10),          // structural, violated
		constraint.NewVariableRange("range", "cores", nil, nil), // variable, satisfied
	)
	e := New(set)
	d := twoComponentDesign(t)

	structural := e.EvaluateCategory(d, constraint.Structural)
	if structural.IsValid || len(structural.Violations) != 1 {
		t.Fatalf("structural: %+v", structural)
	}
	variableResult := e.EvaluateCategory(d, constraint.Variable)
	if !variableResult.IsValid {
		t.Fatalf("variable: %+v", variableResult)
	}
}

func TestOverrideTakesPrecedence(t *testing.T) {
	set := constraint.NewSet(constraint.NewComponentCount("count", 5, 10))
	e := New(set)
	d := twoComponentDesign(t)

	if e.Evaluate(d).IsValid {
		t.Fatal("expected built-in check to fail")
	}

	// Lenient override accepts everything of this kind.
	e.RegisterOverride(constraint.KindComponentCount, func(c constraint.Constraint, d *design.Object) (bool, error) {
		return true, nil
	})
	if !e.Evaluate(d).IsValid {
		t.Fatal("override not consulted")
	}
	if got := len(e.RegisteredOverrides()); got != 1 {
		t.Fatalf("RegisteredOverrides = %d", got)
	}

	if !e.UnregisterOverride(constraint.KindComponentCount) {
		t.Fatal("UnregisterOverride missed")
	}
	if e.UnregisterOverride(constraint.KindComponentCount) {
		t.Fatal("second UnregisterOverride succeeded")
	}
	if e.Evaluate(d).IsValid {
		t.Fatal("built-in check not restored after unregister")
	}
}

func TestOverrideErrorFailsClosed(t *testing.T) {
	set := constraint.NewSet(constraint.NewComponentCount("count", 0, 10))
	e := New(set)
	e.RegisterOverride(constraint.KindComponentCount, func(c constraint.Constraint, d *design.Object) (bool, error) {
		return true, errors.New("override failure")
	})
	if e.Evaluate(twoComponentDesign(t)).IsValid {
		t.Fatal("erroring override reported satisfied")
	}
}

func TestSummarize(t *testing.T) {
	set := constraint.NewSet(
		constraint.NewComponentCount("count", 5, 10),
		constraint.NewVariableRange("range", "cores", constraint.Float(10), nil),
	)
	s := New(set).Summarize(twoComponentDesign(t))

	if s.IsValid || s.TotalViolations != 2 {
		t.Fatalf("summary: %+v", s)
	}
	if s.ViolationsByKind[constraint.KindComponentCount] != 1 ||
		s.ViolationsByKind[constraint.KindVariableRange] != 1 {
		t.Fatalf("by kind: %v", s.ViolationsByKind)
	}
	if s.ViolationsBySeverity[constraint.SeverityError] != 2 {
		t.Fatalf("by severity: %v", s.ViolationsBySeverity)
	}
}

func TestSatisfactionRatio(t *testing.T) {
	r := Result{Violations: make([]constraint.Violation, 2)}
	if got := r.SatisfactionRatio(4); got != 0.5 {
		t.Fatalf("ratio = %v, want 0.5", got)
	}
	if got := (Result{}).SatisfactionRatio(0); got != 1.0 {
		t.Fatalf("empty ratio = %v, want 1", got)
	}
}
