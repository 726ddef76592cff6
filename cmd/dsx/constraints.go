package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dsxplore/go-dsx/constraint"
)

// constraintDoc is the on-disk form of a constraint set.
type constraintDoc struct {
	Constraints []constraintSpec `json:"constraints"`
}

// constraintSpec describes one constraint. Which fields apply depends on
// the kind.
type constraintSpec struct {
	ID               string             `json:"id"`
	Kind             string             `json:"kind"`
	Min              *float64           `json:"min,omitempty"`
	Max              *float64           `json:"max,omitempty"`
	Variable         string             `json:"variable,omitempty"`
	ComponentType    string             `json:"component_type,omitempty"`
	Property         string             `json:"property,omitempty"`
	Expected         any                `json:"expected,omitempty"`
	SourceType       string             `json:"source_type,omitempty"`
	TargetType       string             `json:"target_type,omitempty"`
	RelationshipType string             `json:"relationship_type,omitempty"`
	Required         bool               `json:"required,omitempty"`
	Mode             string             `json:"mode,omitempty"`
	Resource         string             `json:"resource,omitempty"`
	MaxUsage         float64            `json:"max_usage,omitempty"`
	Dependent        string             `json:"dependent,omitempty"`
	Rules            map[string]ruleDoc `json:"rules,omitempty"`
}

type ruleDoc struct {
	Equals    *float64 `json:"equals,omitempty"`
	NotEquals *float64 `json:"not_equals,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// loadConstraints reads a constraint set from a JSON file.
func loadConstraints(path string) (*constraint.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read constraints: %w", err)
	}

	var doc constraintDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse constraints: %w", err)
	}

	set := constraint.NewSet()
	for i, spec := range doc.Constraints {
		c, err := buildConstraint(spec)
		if err != nil {
			return nil, fmt.Errorf("constraint %d (%s): %w", i, spec.ID, err)
		}
		set.Add(c)
	}
	return set, nil
}

func buildConstraint(spec constraintSpec) (constraint.Constraint, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	switch constraint.Kind(spec.Kind) {
	case constraint.KindComponentCount:
		min, max := -1, -1
		if spec.Min != nil {
			min = int(*spec.Min)
		}
		if spec.Max != nil {
			max = int(*spec.Max)
		}
		return constraint.NewComponentCount(spec.ID, min, max), nil

	case constraint.KindVariableRange:
		if spec.Variable == "" {
			return nil, fmt.Errorf("variable_range requires a variable")
		}
		return constraint.NewVariableRange(spec.ID, spec.Variable, spec.Min, spec.Max), nil

	case constraint.KindComponentProperty:
		if spec.ComponentType == "" || spec.Property == "" {
			return nil, fmt.Errorf("component_property requires component_type and property")
		}
		return constraint.NewComponentProperty(spec.ID, spec.ComponentType, spec.Property, spec.Expected, spec.Min, spec.Max), nil

	case constraint.KindRelationshipPattern:
		if spec.SourceType == "" || spec.TargetType == "" || spec.RelationshipType == "" {
			return nil, fmt.Errorf("relationship_pattern requires source_type, target_type and relationship_type")
		}
		return constraint.NewRelationshipPattern(spec.ID, spec.SourceType, spec.TargetType, spec.RelationshipType, spec.Required), nil

	case constraint.KindConnectivity:
		if spec.Mode == "" {
			return nil, fmt.Errorf("connectivity requires a mode")
		}
		return constraint.NewConnectivity(spec.ID, spec.Mode), nil

	case constraint.KindResource:
		if spec.Resource == "" {
			return nil, fmt.Errorf("resource requires a resource name")
		}
		return constraint.NewResource(spec.ID, spec.Resource, spec.MaxUsage), nil

	case constraint.KindVariableDependency:
		if spec.Dependent == "" {
			return nil, fmt.Errorf("variable_dependency requires a dependent variable")
		}
		rules := make(map[string]constraint.Rule, len(spec.Rules))
		for name, r := range spec.Rules {
			// Rule holds equality targets as plain values; a nil pointer
			// must become an absent condition, not a typed nil.
			rule := constraint.Rule{Min: r.Min, Max: r.Max}
			if r.Equals != nil {
				rule.Equals = *r.Equals
			}
			if r.NotEquals != nil {
				rule.NotEquals = *r.NotEquals
			}
			rules[name] = rule
		}
		return constraint.NewVariableDependency(spec.ID, spec.Dependent, rules), nil
	}
	return nil, fmt.Errorf("unknown kind %q", spec.Kind)
}
