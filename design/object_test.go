package design

import (
	"encoding/json"
	"testing"

	"github.com/dsxplore/go-dsx/variable"
)

func testObject(t *testing.T) *Object {
	t.Helper()
	vars := variable.NewAssignment()
	vars.AddDomain(variable.NewDomain("cores", variable.TypeInt, map[string]any{"min": 1, "max": 8}))
	if err := vars.Set("cores", 4); err != nil {
		t.Fatalf("Set: %v", err)
	}
	return NewObject("obj-1", testStructure(t), vars, map[string]any{"origin": "test"})
}

func TestObjectJSONRoundTrip(t *testing.T) {
	o := testObject(t)

	raw, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := FromJSON(raw)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if back.ID != o.ID {
		t.Fatalf("id = %q, want %q", back.ID, o.ID)
	}
	if !back.Structure.Equal(o.Structure) {
		t.Fatal("structure did not survive the round trip")
	}
	if len(back.Variables.Values) != len(o.Variables.Values) {
		t.Fatalf("variables = %d, want %d", len(back.Variables.Values), len(o.Variables.Values))
	}
	// JSON numbers decode as float64; the int domain must still accept them.
	if errs := back.Variables.ValidateAll(); len(errs) != 0 {
		t.Fatalf("decoded variables fail validation: %v", errs)
	}
}

func TestFromJSONErrors(t *testing.T) {
	if _, err := FromJSON([]byte("{not json")); err == nil {
		t.Fatal("malformed input accepted")
	}
	if _, err := FromJSON([]byte(`{"structure": {"components": [], "relationships": []}}`)); err == nil {
		t.Fatal("missing id accepted")
	}
}

func TestFromJSONFillsDefaults(t *testing.T) {
	o, err := FromJSON([]byte(`{"id": "bare"}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if o.Structure == nil || o.Variables == nil {
		t.Fatal("nil structure or variables after decode")
	}
}

func TestObjectToMap(t *testing.T) {
	m, err := testObject(t).ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	if m["id"] != "obj-1" {
		t.Fatalf("id = %v", m["id"])
	}
	structure, ok := m["structure"].(map[string]any)
	if !ok {
		t.Fatalf("structure has unexpected shape: %T", m["structure"])
	}
	if comps, ok := structure["components"].([]any); !ok || len(comps) != 3 {
		t.Fatalf("components = %v", structure["components"])
	}
}

func TestObjectCloneIsolation(t *testing.T) {
	o := testObject(t)
	c := o.Clone()

	c.Structure.RemoveComponent("cpu")
	c.Variables.Set("cores", 8)
	c.Metadata["origin"] = "mutated"

	if _, ok := o.Structure.Component("cpu"); !ok {
		t.Fatal("original structure changed through clone")
	}
	if v, _ := o.Variables.Get("cores"); v != 4 {
		t.Fatalf("original variables changed through clone: %v", v)
	}
	if o.Metadata["origin"] != "test" {
		t.Fatal("original metadata changed through clone")
	}
}

func TestNewObjectNilSafety(t *testing.T) {
	o := NewObject("empty", nil, nil, nil)
	if o.Structure == nil || o.Variables == nil {
		t.Fatal("nil inputs not replaced with empty values")
	}
	if _, err := o.ToMap(); err != nil {
		t.Fatalf("ToMap on empty object: %v", err)
	}
}
