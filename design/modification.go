package design

import "fmt"

// Modification is a pure edit operation on a structure. Apply returns a new
// Structure and never mutates its input; it fails instead of producing an
// inconsistent result when a precondition does not hold.
type Modification interface {
	Apply(s *Structure) (*Structure, error)
	Description() string
}

// AddComponent adds a component to the structure.
type AddComponent struct {
	Component Component
}

func (m AddComponent) Apply(s *Structure) (*Structure, error) {
	out := s.Clone()
	if err := out.AddComponent(m.Component.Clone()); err != nil {
		return nil, err
	}
	return out, nil
}

func (m AddComponent) Description() string {
	return fmt.Sprintf("add component %s of type %s", m.Component.ID, m.Component.Type)
}

// RemoveComponent removes a component and all relationships incident to it.
type RemoveComponent struct {
	ComponentID string
}

func (m RemoveComponent) Apply(s *Structure) (*Structure, error) {
	if _, ok := s.Component(m.ComponentID); !ok {
		return nil, fmt.Errorf("component %q: %w", m.ComponentID, ErrNotFound)
	}
	out := s.Clone()
	out.RemoveComponent(m.ComponentID)
	return out, nil
}

func (m RemoveComponent) Description() string {
	return fmt.Sprintf("remove component %s", m.ComponentID)
}

// AddRelationship adds a relationship between two existing components.
type AddRelationship struct {
	Relationship Relationship
}

func (m AddRelationship) Apply(s *Structure) (*Structure, error) {
	out := s.Clone()
	if err := out.AddRelationship(m.Relationship.Clone()); err != nil {
		return nil, err
	}
	return out, nil
}

func (m AddRelationship) Description() string {
	return fmt.Sprintf("add relationship %s from %s to %s",
		m.Relationship.ID, m.Relationship.SourceID, m.Relationship.TargetID)
}

// RemoveRelationship removes a relationship by id.
type RemoveRelationship struct {
	RelationshipID string
}

func (m RemoveRelationship) Apply(s *Structure) (*Structure, error) {
	if _, ok := s.Relationship(m.RelationshipID); !ok {
		return nil, fmt.Errorf("relationship %q: %w", m.RelationshipID, ErrNotFound)
	}
	out := s.Clone()
	out.RemoveRelationship(m.RelationshipID)
	return out, nil
}

func (m RemoveRelationship) Description() string {
	return fmt.Sprintf("remove relationship %s", m.RelationshipID)
}

// ModifyComponentProperties replaces the property map of a component.
type ModifyComponentProperties struct {
	ComponentID string
	Properties  map[string]any
}

func (m ModifyComponentProperties) Apply(s *Structure) (*Structure, error) {
	if _, ok := s.Component(m.ComponentID); !ok {
		return nil, fmt.Errorf("component %q: %w", m.ComponentID, ErrNotFound)
	}
	out := s.Clone()
	for i := range out.Components {
		if out.Components[i].ID == m.ComponentID {
			out.Components[i].Properties = cloneProperties(m.Properties)
		}
	}
	return out, nil
}

func (m ModifyComponentProperties) Description() string {
	return fmt.Sprintf("modify properties of component %s", m.ComponentID)
}

// ModifyRelationshipProperties replaces the property map of a relationship.
type ModifyRelationshipProperties struct {
	RelationshipID string
	Properties     map[string]any
}

func (m ModifyRelationshipProperties) Apply(s *Structure) (*Structure, error) {
	if _, ok := s.Relationship(m.RelationshipID); !ok {
		return nil, fmt.Errorf("relationship %q: %w", m.RelationshipID, ErrNotFound)
	}
	out := s.Clone()
	for i := range out.Relationships {
		if out.Relationships[i].ID == m.RelationshipID {
			out.Relationships[i].Properties = cloneProperties(m.Properties)
		}
	}
	return out, nil
}

func (m ModifyRelationshipProperties) Description() string {
	return fmt.Sprintf("modify properties of relationship %s", m.RelationshipID)
}

// ChangeComponentType changes the type of a component, keeping its
// properties and relationships intact.
type ChangeComponentType struct {
	ComponentID string
	NewType     string
}

func (m ChangeComponentType) Apply(s *Structure) (*Structure, error) {
	if _, ok := s.Component(m.ComponentID); !ok {
		return nil, fmt.Errorf("component %q: %w", m.ComponentID, ErrNotFound)
	}
	out := s.Clone()
	for i := range out.Components {
		if out.Components[i].ID == m.ComponentID {
			out.Components[i].Type = m.NewType
		}
	}
	return out, nil
}

func (m ChangeComponentType) Description() string {
	return fmt.Sprintf("change component %s type to %s", m.ComponentID, m.NewType)
}
