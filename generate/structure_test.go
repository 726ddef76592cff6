package generate

import (
	"errors"
	"testing"

	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
)

func TestGenerateRespectsBounds(t *testing.T) {
	g := NewStructureGenerator(1)
	set := constraint.NewSet(constraint.NewComponentCount("count", 2, 4))

	for i := 0; i < 20; i++ {
		s, err := g.Generate(set)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if n := len(s.Components); n < 2 || n > 4 {
			t.Fatalf("component count %d outside [2, 4]", n)
		}
		if !s.IsValid() {
			t.Fatalf("generated structure invalid: %v", s.Validate())
		}
	}
}

func TestGenerateDefaultBounds(t *testing.T) {
	g := NewStructureGenerator(2)
	s, err := g.Generate(nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n := len(s.Components); n < 1 || n > 5 {
		t.Fatalf("component count %d outside default bounds", n)
	}
}

func TestGenerateRelationshipsNeedTwoComponents(t *testing.T) {
	g := NewStructureGenerator(3)
	set := constraint.NewSet(constraint.NewComponentCount("count", 1, 1))
	s, err := g.Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(s.Relationships) != 0 {
		t.Fatalf("single-component structure has relationships: %v", s.Relationships)
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	set := constraint.NewSet(constraint.NewComponentCount("count", 2, 5))
	a, err := NewStructureGenerator(42).Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := NewStructureGenerator(42).Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("same seed produced different structures")
	}
}

func TestGenerateRejectsUnsatisfiableConstraint(t *testing.T) {
	g := NewStructureGenerator(4)
	// The pattern constraint cannot hold because generation does not plan
	// for it, and a fresh structure rarely carries this exact edge; combined
	// with a one-component bound it can never hold.
	set := constraint.NewSet(
		constraint.NewComponentCount("count", 1, 1),
		constraint.NewRelationshipPattern("pattern", "processor", "memory", "connects_to", true),
	)
	var genErr *GenerationError
	for i := 0; i < 10; i++ {
		s, err := g.Generate(set)
		if err == nil {
			// One component can never satisfy a required two-type pattern
			// unless both types match; with distinct types it must fail.
			t.Fatalf("unexpected success: %v", s)
		}
		if !errors.As(err, &genErr) {
			t.Fatalf("error type = %T, want *GenerationError", err)
		}
	}
}

func TestModifyValidates(t *testing.T) {
	g := NewStructureGenerator(5)
	s := design.NewStructure()
	s.AddComponent(design.Component{ID: "a", Type: "processor"})
	s.AddComponent(design.Component{ID: "b", Type: "memory"})

	out, err := g.Modify(s, design.AddRelationship{
		Relationship: design.Relationship{ID: "r1", SourceID: "a", TargetID: "b", Type: "connects_to"},
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if len(out.Relationships) != 1 {
		t.Fatalf("relationships = %d", len(out.Relationships))
	}
	if len(s.Relationships) != 0 {
		t.Fatal("Modify mutated its input")
	}

	var genErr *GenerationError
	if _, err := g.Modify(s, design.RemoveComponent{ComponentID: "ghost"}); !errors.As(err, &genErr) {
		t.Fatalf("Modify with bad precondition: %v", err)
	}
}

func TestVariantsAreSingleEditNeighbors(t *testing.T) {
	g := NewStructureGenerator(6)
	base := design.NewStructure()
	base.AddComponent(design.Component{ID: "a", Type: "processor", Properties: map[string]any{}})
	base.AddComponent(design.Component{ID: "b", Type: "memory", Properties: map[string]any{}})
	base.AddRelationship(design.Relationship{ID: "r1", SourceID: "a", TargetID: "b", Type: "connects_to"})
	snapshot := base.Clone()

	variants := g.Variants(base)
	if len(variants) == 0 {
		t.Fatal("no variants produced")
	}
	// All six edit families apply to this base.
	if len(variants) != 6 {
		t.Fatalf("variants = %d, want 6", len(variants))
	}
	if !base.Equal(snapshot) {
		t.Fatal("Variants mutated the base structure")
	}
	for i, v := range variants {
		if !v.IsValid() {
			t.Fatalf("variant %d invalid: %v", i, v.Validate())
		}
		if v.Equal(base) {
			t.Fatalf("variant %d identical to base", i)
		}
	}
}

func TestVariantsOnMinimalStructure(t *testing.T) {
	g := NewStructureGenerator(7)
	base := design.NewStructure()
	base.AddComponent(design.Component{ID: "only", Type: "processor"})

	// Remove-component, add-relationship and remove-relationship edits do
	// not apply; the rest still do.
	variants := g.Variants(base)
	if len(variants) != 3 {
		t.Fatalf("variants = %d, want 3", len(variants))
	}
}
