// Package variable implements typed variable domains and the assignments
// attached to a candidate design.
package variable

import "fmt"

// Domain types understood by validation and sampling. Values of any other
// type string pass type checking unchanged.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
	TypeBool   = "bool"
	TypeEnum   = "enum"
	TypeRange  = "range"
)

// Domain describes the set of admissible values for one variable.
// Constraints is interpreted per type: "min"/"max" for int, float and range
// domains, "values" for enum domains, "default" for string sampling.
type Domain struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// NewDomain creates a domain with the given constraints.
func NewDomain(name, typ string, constraints map[string]any) Domain {
	if constraints == nil {
		constraints = make(map[string]any)
	}
	return Domain{Name: name, Type: typ, Constraints: constraints}
}

// IsValidValue reports whether value belongs to the domain. An unknown
// domain type accepts any value; int domains accept whole-numbered floats
// because decoded JSON represents every number as float64.
func (d Domain) IsValidValue(value any) bool {
	switch d.Type {
	case TypeInt:
		n, ok := asInt(value)
		if !ok {
			return false
		}
		return d.inBounds(float64(n))
	case TypeFloat, TypeRange:
		f, ok := asFloat(value)
		if !ok {
			return false
		}
		return d.inBounds(f)
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBool:
		_, ok := value.(bool)
		return ok
	case TypeEnum:
		for _, allowed := range d.enumValues() {
			if valueEqual(allowed, value) {
				return true
			}
		}
		return false
	}
	return true
}

// SampleValue returns one admissible value, biased to the lower bound so
// sampling stays deterministic.
func (d Domain) SampleValue() any {
	switch d.Type {
	case TypeInt:
		if min, ok := d.bound("min"); ok {
			return int(min)
		}
		return 0
	case TypeFloat:
		if min, ok := d.bound("min"); ok {
			return min
		}
		return 0.0
	case TypeRange:
		if min, ok := d.bound("min"); ok {
			return min
		}
		return 0.0
	case TypeString:
		if def, ok := d.Constraints["default"].(string); ok {
			return def
		}
		return ""
	case TypeBool:
		return false
	case TypeEnum:
		values := d.enumValues()
		if len(values) > 0 {
			return values[0]
		}
		return nil
	}
	return nil
}

// Size returns the number of values in the domain, or false when the domain
// is unbounded or continuous.
func (d Domain) Size() (int, bool) {
	switch d.Type {
	case TypeEnum:
		return len(d.enumValues()), true
	case TypeBool:
		return 2, true
	case TypeInt, TypeRange:
		min, okMin := d.bound("min")
		max, okMax := d.bound("max")
		if okMin && okMax && max >= min {
			return int(max-min) + 1, true
		}
	}
	return 0, false
}

func (d Domain) enumValues() []any {
	values, _ := d.Constraints["values"].([]any)
	return values
}

func (d Domain) bound(key string) (float64, bool) {
	v, ok := d.Constraints[key]
	if !ok {
		return 0, false
	}
	return asFloat(v)
}

func (d Domain) inBounds(v float64) bool {
	if min, ok := d.bound("min"); ok && v < min {
		return false
	}
	if max, ok := d.bound("max"); ok && v > max {
		return false
	}
	return true
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case float32:
		if float64(n) == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func valueEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
