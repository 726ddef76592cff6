package design

import (
	"encoding/json"
	"fmt"

	"github.com/dsxplore/go-dsx/variable"
)

// Object is one complete candidate design: a structure plus the variable
// assignment attached to it. This is the unit handed to schema validation
// and constraint evaluation.
type Object struct {
	ID        string               `json:"id"`
	Structure *Structure           `json:"structure"`
	Variables *variable.Assignment `json:"variables"`
	Metadata  map[string]any       `json:"metadata,omitempty"`
}

// NewObject creates a design object. Nil structure or variables are replaced
// with empty values so the object is always safe to evaluate.
func NewObject(id string, s *Structure, vars *variable.Assignment, metadata map[string]any) *Object {
	if s == nil {
		s = NewStructure()
	}
	if vars == nil {
		vars = variable.NewAssignment()
	}
	return &Object{ID: id, Structure: s, Variables: vars, Metadata: metadata}
}

// ToMap renders the object as a generic map, the form consumed by schema
// validators.
func (o *Object) ToMap() (map[string]any, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode design object: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode design object: %w", err)
	}
	return out, nil
}

// FromJSON decodes a design object from its JSON form.
func FromJSON(data []byte) (*Object, error) {
	var o Object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse design object: %w", err)
	}
	if o.ID == "" {
		return nil, fmt.Errorf("design object missing id")
	}
	if o.Structure == nil {
		o.Structure = NewStructure()
	}
	if o.Variables == nil {
		o.Variables = variable.NewAssignment()
	}
	return &o, nil
}

// Clone returns a deep copy of the design object.
func (o *Object) Clone() *Object {
	meta := make(map[string]any, len(o.Metadata))
	for k, v := range o.Metadata {
		meta[k] = v
	}
	return &Object{
		ID:        o.ID,
		Structure: o.Structure.Clone(),
		Variables: o.Variables.Clone(),
		Metadata:  meta,
	}
}

func (o *Object) String() string {
	return fmt.Sprintf("Object(id=%s, components=%d, variables=%d)",
		o.ID, len(o.Structure.Components), len(o.Variables.Values))
}
