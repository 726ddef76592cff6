// Package schema defines the document validation boundary. Validators work
// on a design rendered as a generic map so external schema engines can plug
// in behind the same contract.
package schema

import "fmt"

// Error describes one validation failure at a path in the document.
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (e Error) String() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result is the outcome of validating one document. Validation failures are
// carried as data; only an inability to run the validator itself surfaces
// as a Go error.
type Result struct {
	IsValid bool    `json:"is_valid"`
	Errors  []Error `json:"errors"`
}

// Validator validates a design document.
type Validator interface {
	Validate(doc map[string]any) Result
}

// StructureValidator is the default validator: it checks that the document
// has the shape of a design object. Field-level value rules belong to
// constraints, not here.
type StructureValidator struct{}

// NewStructureValidator creates the default shape validator.
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{}
}

// Validate checks the document shape and collects every problem found.
func (v *StructureValidator) Validate(doc map[string]any) Result {
	var errs []Error

	if id, ok := doc["id"]; !ok {
		errs = append(errs, Error{Path: "root", Message: "missing required property: 'id'"})
	} else if _, isString := id.(string); !isString {
		errs = append(errs, Error{Path: "id", Message: fmt.Sprintf("expected type 'string', got '%T'", id), Value: id})
	}

	structure, ok := doc["structure"].(map[string]any)
	if !ok {
		errs = append(errs, Error{Path: "structure", Message: "missing or malformed 'structure' object", Value: doc["structure"]})
		return Result{IsValid: len(errs) == 0, Errors: errs}
	}

	componentIDs := make(map[string]bool)
	components, ok := structure["components"].([]any)
	if !ok {
		errs = append(errs, Error{Path: "structure.components", Message: "missing or malformed 'components' array", Value: structure["components"]})
	} else {
		for i, raw := range components {
			path := fmt.Sprintf("structure.components[%d]", i)
			comp, ok := raw.(map[string]any)
			if !ok {
				errs = append(errs, Error{Path: path, Message: "expected type 'object'", Value: raw})
				continue
			}
			if id, ok := requireString(comp, "id", path, &errs); ok {
				componentIDs[id] = true
			}
			requireString(comp, "type", path, &errs)
		}
	}

	relationships, ok := structure["relationships"].([]any)
	if !ok {
		errs = append(errs, Error{Path: "structure.relationships", Message: "missing or malformed 'relationships' array", Value: structure["relationships"]})
	} else {
		for i, raw := range relationships {
			path := fmt.Sprintf("structure.relationships[%d]", i)
			rel, ok := raw.(map[string]any)
			if !ok {
				errs = append(errs, Error{Path: path, Message: "expected type 'object'", Value: raw})
				continue
			}
			requireString(rel, "id", path, &errs)
			requireString(rel, "type", path, &errs)
			for _, field := range []string{"source_id", "target_id"} {
				endpoint, ok := requireString(rel, field, path, &errs)
				if ok && len(componentIDs) > 0 && !componentIDs[endpoint] {
					errs = append(errs, Error{
						Path:    path + "." + field,
						Message: fmt.Sprintf("references unknown component %q", endpoint),
						Value:   endpoint,
					})
				}
			}
		}
	}

	if vars, present := doc["variables"]; present && vars != nil {
		if _, ok := vars.(map[string]any); !ok {
			errs = append(errs, Error{Path: "variables", Message: "expected type 'object'", Value: vars})
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func requireString(obj map[string]any, field, path string, errs *[]Error) (string, bool) {
	v, ok := obj[field]
	if !ok {
		*errs = append(*errs, Error{Path: path, Message: fmt.Sprintf("missing required property: '%s'", field)})
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		*errs = append(*errs, Error{Path: path + "." + field, Message: fmt.Sprintf("expected type 'string', got '%T'", v), Value: v})
		return "", false
	}
	return s, true
}
