// Package generate produces candidate structures and variable assignments.
// Generation is generate-then-test: candidates are built randomly inside
// the component bounds and rejected when they miss a structural constraint.
package generate

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
)

// Default component bounds used when no constraint provides one.
const (
	defaultMinComponents = 1
	defaultMaxComponents = 5
)

// Palettes for random generation.
var (
	componentTypes    = []string{"processor", "memory", "storage", "network", "sensor", "actuator"}
	relationshipTypes = []string{"connects_to", "depends_on", "controls", "monitors"}
)

// StructureGenerator builds random structures from a seeded source so runs
// are reproducible.
type StructureGenerator struct {
	rng *rand.Rand
}

// NewStructureGenerator creates a generator seeded for reproducible output.
func NewStructureGenerator(seed int64) *StructureGenerator {
	return &StructureGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a random structure whose component count lies inside the
// bounds provided by the constraint set, then re-checks the structural
// constraints against the finished candidate. It fails with a
// *GenerationError when the candidate misses a constraint.
func (g *StructureGenerator) Generate(set *constraint.Set) (*design.Structure, error) {
	min, max := componentBounds(set)
	count := min
	if max > min {
		count += g.rng.Intn(max - min + 1)
	}

	s := design.NewStructure()
	for i := 0; i < count; i++ {
		if err := s.AddComponent(g.randomComponent(fmt.Sprintf("comp_%d", i))); err != nil {
			return nil, &GenerationError{Reason: "adding component", Err: err}
		}
	}

	if len(s.Components) > 1 {
		limit := len(s.Components) * 2
		if limit > 10 {
			limit = 10
		}
		numRelationships := 1 + g.rng.Intn(limit)
		for i := 0; i < numRelationships; i++ {
			rel := g.randomRelationship(fmt.Sprintf("rel_%d", i), s.Components)
			if err := s.AddRelationship(rel); err != nil {
				return nil, &GenerationError{Reason: "adding relationship", Err: err}
			}
		}
	}

	if errs := s.Validate(); len(errs) != 0 {
		return nil, &GenerationError{Reason: "generated invalid structure: " + strings.Join(errs, "; ")}
	}
	if err := checkStructural(s, set); err != nil {
		return nil, err
	}
	return s, nil
}

// Modify applies a modification and validates the result.
func (g *StructureGenerator) Modify(s *design.Structure, mod design.Modification) (*design.Structure, error) {
	out, err := mod.Apply(s)
	if err != nil {
		return nil, &GenerationError{Reason: "applying modification", Err: err}
	}
	if errs := out.Validate(); len(errs) != 0 {
		return nil, &GenerationError{Reason: "modification produced invalid structure: " + strings.Join(errs, "; ")}
	}
	return out, nil
}

// Variants derives up to six single-edit successors of the base structure:
// add/remove a component, add/remove a relationship, modify properties and
// retype a component. Edits that fail are skipped silently.
func (g *StructureGenerator) Variants(base *design.Structure) []*design.Structure {
	var variants []*design.Structure
	apply := func(mod design.Modification) {
		if variant, err := g.Modify(base, mod); err == nil {
			variants = append(variants, variant)
		}
	}

	if len(base.Components) < 10 {
		apply(design.AddComponent{
			Component: g.randomComponent(fmt.Sprintf("variant_comp_%d", len(base.Components))),
		})
	}
	if len(base.Components) > 1 {
		victim := base.Components[g.rng.Intn(len(base.Components))]
		apply(design.RemoveComponent{ComponentID: victim.ID})
	}
	if len(base.Components) >= 2 {
		if rel, ok := g.unconnectedPair(base); ok {
			apply(design.AddRelationship{Relationship: rel})
		}
	}
	if len(base.Relationships) > 0 {
		victim := base.Relationships[g.rng.Intn(len(base.Relationships))]
		apply(design.RemoveRelationship{RelationshipID: victim.ID})
	}
	if len(base.Components) > 0 {
		target := base.Components[g.rng.Intn(len(base.Components))]
		props := make(map[string]any, len(target.Properties)+2)
		for k, v := range target.Properties {
			props[k] = v
		}
		props["variant_property"] = 1 + g.rng.Intn(100)
		props["modified_at"] = "variant_generation"
		apply(design.ModifyComponentProperties{ComponentID: target.ID, Properties: props})
	}
	if len(base.Components) > 0 {
		target := base.Components[g.rng.Intn(len(base.Components))]
		var others []string
		for _, typ := range componentTypes {
			if typ != target.Type {
				others = append(others, typ)
			}
		}
		if len(others) > 0 {
			apply(design.ChangeComponentType{
				ComponentID: target.ID,
				NewType:     others[g.rng.Intn(len(others))],
			})
		}
	}
	return variants
}

// unconnectedPair picks a random ordered component pair with no existing
// edge in that direction.
func (g *StructureGenerator) unconnectedPair(s *design.Structure) (design.Relationship, bool) {
	connected := make(map[string]bool, len(s.Relationships))
	for _, r := range s.Relationships {
		connected[r.SourceID+"\x00"+r.TargetID] = true
	}
	type pair struct{ source, target string }
	var available []pair
	for _, source := range s.Components {
		for _, target := range s.Components {
			if source.ID != target.ID && !connected[source.ID+"\x00"+target.ID] {
				available = append(available, pair{source.ID, target.ID})
			}
		}
	}
	if len(available) == 0 {
		return design.Relationship{}, false
	}
	chosen := available[g.rng.Intn(len(available))]
	return design.Relationship{
		ID:       fmt.Sprintf("variant_rel_%d", len(s.Relationships)),
		SourceID: chosen.source,
		TargetID: chosen.target,
		Type:     relationshipTypes[g.rng.Intn(len(relationshipTypes))],
		Properties: map[string]any{
			"strength":      0.1 + g.rng.Float64()*0.9,
			"bidirectional": g.rng.Intn(2) == 0,
		},
	}, true
}

func (g *StructureGenerator) randomComponent(id string) design.Component {
	priorities := []string{"low", "medium", "high"}
	return design.Component{
		ID:   id,
		Type: componentTypes[g.rng.Intn(len(componentTypes))],
		Properties: map[string]any{
			"capacity": 1 + g.rng.Intn(100),
			"priority": priorities[g.rng.Intn(len(priorities))],
			"active":   g.rng.Intn(2) == 0,
		},
	}
}

func (g *StructureGenerator) randomRelationship(id string, components []design.Component) design.Relationship {
	source := components[g.rng.Intn(len(components))]
	target := source
	for target.ID == source.ID {
		target = components[g.rng.Intn(len(components))]
	}
	return design.Relationship{
		ID:       id,
		SourceID: source.ID,
		TargetID: target.ID,
		Type:     relationshipTypes[g.rng.Intn(len(relationshipTypes))],
		Properties: map[string]any{
			"strength":      0.1 + g.rng.Float64()*0.9,
			"bidirectional": g.rng.Intn(2) == 0,
		},
	}
}

// componentBounds merges the bound providers in the set with the defaults.
// The minimum is never lowered below the default and a crossed pair is
// clamped to min.
func componentBounds(set *constraint.Set) (int, int) {
	min, max := defaultMinComponents, defaultMaxComponents
	if set != nil {
		lo, hasMin, hi, hasMax := set.Bounds()
		if hasMin && lo > min {
			min = lo
		}
		if hasMax {
			max = hi
		}
	}
	if min > max {
		max = min
	}
	return min, max
}

// checkStructural re-checks the structural constraints against the bare
// structure wrapped in a throwaway design object.
func checkStructural(s *design.Structure, set *constraint.Set) error {
	if set == nil {
		return nil
	}
	probe := design.NewObject("temp_validation", s, nil, nil)
	for _, c := range set.ByCategory(constraint.Structural) {
		ok, err := c.IsSatisfied(probe)
		if err != nil || !ok {
			return &GenerationError{
				Reason:       "constraint violation: " + c.ViolationMessage(probe),
				ConstraintID: c.ID(),
				Err:          err,
			}
		}
	}
	return nil
}
