// Package design implements the core design data structures.
// A candidate design is a Structure (a graph of typed Components connected
// by typed Relationships) combined with a set of variable assignments.
package design

import (
	"errors"
	"fmt"
	"sort"
)

// Common structure errors.
var (
	ErrDuplicateID       = errors.New("duplicate id")
	ErrDanglingReference = errors.New("dangling reference")
	ErrNotFound          = errors.New("not found")
)

// Component represents a typed node in the design structure.
type Component struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	return Component{
		ID:         c.ID,
		Type:       c.Type,
		Properties: cloneProperties(c.Properties),
	}
}

// Relationship represents a typed, directed edge between two components.
// Self-loops are permitted.
type Relationship struct {
	ID         string         `json:"id"`
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Clone returns a deep copy of the relationship.
func (r Relationship) Clone() Relationship {
	return Relationship{
		ID:         r.ID,
		SourceID:   r.SourceID,
		TargetID:   r.TargetID,
		Type:       r.Type,
		Properties: cloneProperties(r.Properties),
	}
}

// Structure is an ordered collection of components and relationships.
// Edits through AddComponent/AddRelationship/RemoveComponent mutate the
// receiver; Modification values instead produce a brand-new Structure and
// leave their input untouched.
type Structure struct {
	Components    []Component    `json:"components"`
	Relationships []Relationship `json:"relationships"`
}

// NewStructure creates an empty structure.
func NewStructure() *Structure {
	return &Structure{
		Components:    make([]Component, 0),
		Relationships: make([]Relationship, 0),
	}
}

// AddComponent appends a component.
// Fails with ErrDuplicateID if a component with the same id exists.
func (s *Structure) AddComponent(c Component) error {
	for _, existing := range s.Components {
		if existing.ID == c.ID {
			return fmt.Errorf("component %q: %w", c.ID, ErrDuplicateID)
		}
	}
	s.Components = append(s.Components, c)
	return nil
}

// AddRelationship appends a relationship.
// Fails with ErrDanglingReference when either endpoint is missing and with
// ErrDuplicateID when the relationship id is already taken.
func (s *Structure) AddRelationship(r Relationship) error {
	for _, existing := range s.Relationships {
		if existing.ID == r.ID {
			return fmt.Errorf("relationship %q: %w", r.ID, ErrDuplicateID)
		}
	}
	ids := s.componentIDs()
	if !ids[r.SourceID] {
		return fmt.Errorf("relationship %q: source component %q: %w", r.ID, r.SourceID, ErrDanglingReference)
	}
	if !ids[r.TargetID] {
		return fmt.Errorf("relationship %q: target component %q: %w", r.ID, r.TargetID, ErrDanglingReference)
	}
	s.Relationships = append(s.Relationships, r)
	return nil
}

// RemoveComponent removes the component and every relationship incident to it.
func (s *Structure) RemoveComponent(id string) {
	components := s.Components[:0]
	for _, c := range s.Components {
		if c.ID != id {
			components = append(components, c)
		}
	}
	s.Components = components

	relationships := s.Relationships[:0]
	for _, r := range s.Relationships {
		if r.SourceID != id && r.TargetID != id {
			relationships = append(relationships, r)
		}
	}
	s.Relationships = relationships
}

// RemoveRelationship removes the relationship with the given id, if present.
func (s *Structure) RemoveRelationship(id string) {
	relationships := s.Relationships[:0]
	for _, r := range s.Relationships {
		if r.ID != id {
			relationships = append(relationships, r)
		}
	}
	s.Relationships = relationships
}

// Component returns the component with the given id, or false if absent.
func (s *Structure) Component(id string) (Component, bool) {
	for _, c := range s.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// Relationship returns the relationship with the given id, or false if absent.
func (s *Structure) Relationship(id string) (Relationship, bool) {
	for _, r := range s.Relationships {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// RelationshipsFor returns every relationship incident to the component.
func (s *Structure) RelationshipsFor(componentID string) []Relationship {
	var result []Relationship
	for _, r := range s.Relationships {
		if r.SourceID == componentID || r.TargetID == componentID {
			result = append(result, r)
		}
	}
	return result
}

// IsValid reports whether the structure has no validation errors.
func (s *Structure) IsValid() bool {
	return len(s.Validate()) == 0
}

// Validate returns the full list of structural problems: relationships whose
// endpoints do not resolve, duplicate component ids, and duplicate
// relationship ids. An empty list means the structure is well formed.
func (s *Structure) Validate() []string {
	var errs []string

	ids := s.componentIDs()
	for _, r := range s.Relationships {
		if !ids[r.SourceID] {
			errs = append(errs, fmt.Sprintf("relationship %q references non-existent source component %q", r.ID, r.SourceID))
		}
		if !ids[r.TargetID] {
			errs = append(errs, fmt.Sprintf("relationship %q references non-existent target component %q", r.ID, r.TargetID))
		}
	}

	seen := make(map[string]bool, len(s.Components))
	for _, c := range s.Components {
		if seen[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate component id %q", c.ID))
		}
		seen[c.ID] = true
	}

	seenRel := make(map[string]bool, len(s.Relationships))
	for _, r := range s.Relationships {
		if seenRel[r.ID] {
			errs = append(errs, fmt.Sprintf("duplicate relationship id %q", r.ID))
		}
		seenRel[r.ID] = true
	}

	return errs
}

// Clone returns a deep copy of the structure.
func (s *Structure) Clone() *Structure {
	clone := &Structure{
		Components:    make([]Component, 0, len(s.Components)),
		Relationships: make([]Relationship, 0, len(s.Relationships)),
	}
	for _, c := range s.Components {
		clone.Components = append(clone.Components, c.Clone())
	}
	for _, r := range s.Relationships {
		clone.Relationships = append(clone.Relationships, r.Clone())
	}
	return clone
}

// Equal reports whether two structures hold the same components and
// relationships, ignoring order.
func (s *Structure) Equal(other *Structure) bool {
	if other == nil {
		return false
	}
	if len(s.Components) != len(other.Components) || len(s.Relationships) != len(other.Relationships) {
		return false
	}

	byID := make(map[string]Component, len(other.Components))
	for _, c := range other.Components {
		byID[c.ID] = c
	}
	for _, c := range s.Components {
		o, ok := byID[c.ID]
		if !ok || o.Type != c.Type || !propertiesEqual(o.Properties, c.Properties) {
			return false
		}
	}

	relByID := make(map[string]Relationship, len(other.Relationships))
	for _, r := range other.Relationships {
		relByID[r.ID] = r
	}
	for _, r := range s.Relationships {
		o, ok := relByID[r.ID]
		if !ok || o.SourceID != r.SourceID || o.TargetID != r.TargetID ||
			o.Type != r.Type || !propertiesEqual(o.Properties, r.Properties) {
			return false
		}
	}
	return true
}

// Fingerprint returns a deterministic textual digest of the structure's
// shape, suitable for visited-set bookkeeping. Properties are not part of
// the fingerprint.
func (s *Structure) Fingerprint() string {
	comps := make([]string, 0, len(s.Components))
	for _, c := range s.Components {
		comps = append(comps, c.ID+":"+c.Type)
	}
	sort.Strings(comps)

	rels := make([]string, 0, len(s.Relationships))
	for _, r := range s.Relationships {
		rels = append(rels, r.ID+":"+r.SourceID+">"+r.TargetID+":"+r.Type)
	}
	sort.Strings(rels)

	out := ""
	for _, c := range comps {
		out += c + ";"
	}
	out += "|"
	for _, r := range rels {
		out += r + ";"
	}
	return out
}

func (s *Structure) String() string {
	return fmt.Sprintf("Structure(components=%d, relationships=%d)", len(s.Components), len(s.Relationships))
}

func (s *Structure) componentIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Components))
	for _, c := range s.Components {
		ids[c.ID] = true
	}
	return ids
}

func cloneProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

func propertiesEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || fmt.Sprint(va) != fmt.Sprint(vb) {
			return false
		}
	}
	return true
}
