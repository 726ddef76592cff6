package schema

import (
	"strings"
	"testing"
)

func validDoc() map[string]any {
	return map[string]any{
		"id": "d-1",
		"structure": map[string]any{
			"components": []any{
				map[string]any{"id": "cpu", "type": "processor"},
				map[string]any{"id": "ram", "type": "memory"},
			},
			"relationships": []any{
				map[string]any{"id": "r1", "source_id": "cpu", "target_id": "ram", "type": "connects_to"},
			},
		},
		"variables": map[string]any{
			"assignments": map[string]any{"cores": float64(4)},
		},
	}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	result := NewStructureValidator().Validate(validDoc())
	if !result.IsValid {
		t.Fatalf("valid document rejected: %v", result.Errors)
	}
}

func TestValidateShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		wantPath string
	}{
		{
			"missing id",
			func(doc map[string]any) { delete(doc, "id") },
			"root",
		},
		{
			"non-string id",
			func(doc map[string]any) { doc["id"] = 42 },
			"id",
		},
		{
			"missing structure",
			func(doc map[string]any) { delete(doc, "structure") },
			"structure",
		},
		{
			"components not an array",
			func(doc map[string]any) {
				doc["structure"].(map[string]any)["components"] = "oops"
			},
			"structure.components",
		},
		{
			"component missing type",
			func(doc map[string]any) {
				comps := doc["structure"].(map[string]any)["components"].([]any)
				comps[0] = map[string]any{"id": "cpu"}
			},
			"structure.components[0]",
		},
		{
			"relationship endpoint unknown",
			func(doc map[string]any) {
				rels := doc["structure"].(map[string]any)["relationships"].([]any)
				rels[0].(map[string]any)["target_id"] = "ghost"
			},
			"structure.relationships[0].target_id",
		},
		{
			"variables not an object",
			func(doc map[string]any) { doc["variables"] = []any{} },
			"variables",
		},
	}

	v := NewStructureValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			result := v.Validate(doc)
			if result.IsValid {
				t.Fatal("malformed document accepted")
			}
			found := false
			for _, e := range result.Errors {
				if e.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error at path %q: %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateCollectsMultipleErrors(t *testing.T) {
	doc := map[string]any{
		"structure": map[string]any{
			"components":    []any{map[string]any{}},
			"relationships": []any{},
		},
	}
	result := NewStructureValidator().Validate(doc)
	if result.IsValid {
		t.Fatal("document accepted")
	}
	// Missing id plus missing component id and type.
	if len(result.Errors) < 3 {
		t.Fatalf("errors = %d, want at least 3: %v", len(result.Errors), result.Errors)
	}
}

func TestErrorString(t *testing.T) {
	e := Error{Path: "structure.components[1]", Message: "missing required property: 'type'"}
	if got := e.String(); !strings.Contains(got, "components[1]") || !strings.Contains(got, "'type'") {
		t.Fatalf("String() = %q", got)
	}
}
