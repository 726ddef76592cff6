package variable

import (
	"errors"
	"testing"
)

func TestAssignmentSet(t *testing.T) {
	a := NewAssignment()
	a.AddDomain(NewDomain("cores", TypeInt, map[string]any{"min": 1, "max": 8}))

	if err := a.Set("cores", 4); err != nil {
		t.Fatalf("Set valid value: %v", err)
	}
	if err := a.Set("cores", 12); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Set out-of-domain value: got %v, want ErrInvalidValue", err)
	}
	// The failed set must not clobber the previous value.
	if v, _ := a.Get("cores"); v != 4 {
		t.Fatalf("cores = %v after rejected set, want 4", v)
	}

	// Variables without a domain accept anything.
	if err := a.Set("free", "anything"); err != nil {
		t.Fatalf("Set without domain: %v", err)
	}
}

func TestAssignmentLateDomainRegistration(t *testing.T) {
	a := NewAssignment()
	if err := a.Set("cores", 100); err != nil {
		t.Fatalf("Set before domain registration: %v", err)
	}
	a.AddDomain(NewDomain("cores", TypeInt, map[string]any{"min": 1, "max": 8}))

	// The stale value survives Set-time checking but ValidateAll reports it.
	errs := a.ValidateAll()
	if len(errs) != 1 {
		t.Fatalf("ValidateAll() = %v, want one violation", errs)
	}

	// New writes are held to the domain.
	if err := a.Set("cores", 200); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Set after domain registration: got %v, want ErrInvalidValue", err)
	}
}

func TestAssignmentGet(t *testing.T) {
	a := NewAssignment()
	if _, err := a.Get("missing"); !errors.Is(err, ErrUnassigned) {
		t.Fatalf("Get missing: got %v, want ErrUnassigned", err)
	}
	a.Set("x", 1)
	v, err := a.Get("x")
	if err != nil || v != 1 {
		t.Fatalf("Get(x) = %v, %v", v, err)
	}
}

func TestAssignmentCompleteness(t *testing.T) {
	a := NewAssignment()
	a.AddDomain(NewDomain("a", TypeInt, nil))
	a.AddDomain(NewDomain("b", TypeBool, nil))

	if a.IsComplete() {
		t.Fatal("empty assignment reported complete")
	}
	if got := len(a.Unassigned()); got != 2 {
		t.Fatalf("Unassigned() = %d entries, want 2", got)
	}

	a.Set("a", 1)
	a.Set("b", true)
	if !a.IsComplete() {
		t.Fatal("full assignment reported incomplete")
	}
}

func TestAssignmentConsistency(t *testing.T) {
	a := NewAssignment()
	a.AddDependency("encryption_level", []string{"security_enabled"})

	// Dependencies of unassigned variables are not checked.
	if !a.IsConsistent() {
		t.Fatal("empty assignment reported inconsistent")
	}

	a.Set("encryption_level", 3)
	if a.IsConsistent() {
		t.Fatal("missing dependency not detected")
	}

	a.Set("security_enabled", true)
	if !a.IsConsistent() {
		t.Fatal("satisfied dependency reported inconsistent")
	}
}

func TestAssignmentClone(t *testing.T) {
	a := NewAssignment()
	a.AddDomain(NewDomain("cores", TypeInt, map[string]any{"min": 1, "max": 8}))
	a.AddDependency("cores", []string{"enabled"})
	a.Set("enabled", true)
	a.Set("cores", 2)

	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone not equal to original")
	}

	b.Set("cores", 3)
	b.Domains["cores"].Constraints["max"] = 99
	b.Dependencies["cores"][0] = "other"

	if v, _ := a.Get("cores"); v != 2 {
		t.Fatalf("original value changed through clone: %v", v)
	}
	if a.Domains["cores"].Constraints["max"] != 8 {
		t.Fatal("original domain changed through clone")
	}
	if a.Dependencies["cores"][0] != "enabled" {
		t.Fatal("original dependencies changed through clone")
	}
	if a.Equal(b) {
		t.Fatal("mutated clone still equal to original")
	}
}

func TestSpaceCombinations(t *testing.T) {
	domains := map[string]Domain{
		"mode":  NewDomain("mode", TypeEnum, map[string]any{"values": []any{"a", "b", "c"}}),
		"flag":  NewDomain("flag", TypeBool, nil),
		"cores": NewDomain("cores", TypeInt, map[string]any{"min": 1, "max": 4}),
	}
	s := NewSpace(domains, nil)

	if got := s.VariableCount(); got != 3 {
		t.Fatalf("VariableCount() = %d, want 3", got)
	}
	total, ok := s.TotalCombinations()
	if !ok || total != 24 {
		t.Fatalf("TotalCombinations() = %d, %v, want 24, true", total, ok)
	}

	// One continuous domain makes the whole space uncountable.
	domains["load"] = NewDomain("load", TypeFloat, map[string]any{"min": 0.0, "max": 1.0})
	if _, ok := s.TotalCombinations(); ok {
		t.Fatal("TotalCombinations() finite with a continuous domain")
	}
	if _, ok := s.DomainSize("absent"); ok {
		t.Fatal("DomainSize reported a size for an unknown variable")
	}
}
