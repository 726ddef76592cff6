package variable

import (
	"errors"
	"fmt"
)

// Assignment errors.
var (
	ErrInvalidValue = errors.New("value outside domain")
	ErrUnassigned   = errors.New("variable not assigned")
)

// Assignment holds the variable values of one candidate design, together
// with the domains that govern them and the dependency edges between them.
type Assignment struct {
	Values       map[string]any      `json:"assignments"`
	Domains      map[string]Domain   `json:"domains,omitempty"`
	Dependencies map[string][]string `json:"dependencies,omitempty"`
}

// NewAssignment creates an empty assignment.
func NewAssignment() *Assignment {
	return &Assignment{
		Values:       make(map[string]any),
		Domains:      make(map[string]Domain),
		Dependencies: make(map[string][]string),
	}
}

// Set assigns a value to a variable. When the variable has a registered
// domain the value must belong to it; variables without a domain accept any
// value, so already-held values can drift out of a domain added later.
// ValidateAll catches that case.
func (a *Assignment) Set(name string, value any) error {
	if domain, ok := a.Domains[name]; ok {
		if !domain.IsValidValue(value) {
			return fmt.Errorf("variable %q = %v: %w %s", name, value, ErrInvalidValue, domain.Name)
		}
	}
	a.Values[name] = value
	return nil
}

// Get returns the value of a variable, or ErrUnassigned.
func (a *Assignment) Get(name string) (any, error) {
	v, ok := a.Values[name]
	if !ok {
		return nil, fmt.Errorf("variable %q: %w", name, ErrUnassigned)
	}
	return v, nil
}

// Has reports whether the variable is assigned.
func (a *Assignment) Has(name string) bool {
	_, ok := a.Values[name]
	return ok
}

// AddDomain registers the domain for domain.Name, replacing any previous one.
func (a *Assignment) AddDomain(domain Domain) {
	if a.Domains == nil {
		a.Domains = make(map[string]Domain)
	}
	a.Domains[domain.Name] = domain
}

// AddDependency records that variable requires dependsOn to be assigned.
func (a *Assignment) AddDependency(variable string, dependsOn []string) {
	if a.Dependencies == nil {
		a.Dependencies = make(map[string][]string)
	}
	a.Dependencies[variable] = append([]string(nil), dependsOn...)
}

// Unassigned returns the variables that have a domain but no value.
func (a *Assignment) Unassigned() []string {
	var out []string
	for name := range a.Domains {
		if !a.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// IsComplete reports whether every variable with a domain is assigned.
func (a *Assignment) IsComplete() bool {
	return len(a.Unassigned()) == 0
}

// IsConsistent reports whether every assigned variable also has all of its
// dependencies assigned. Dependencies of unassigned variables are ignored.
func (a *Assignment) IsConsistent() bool {
	for variable, deps := range a.Dependencies {
		if !a.Has(variable) {
			continue
		}
		for _, dep := range deps {
			if !a.Has(dep) {
				return false
			}
		}
	}
	return true
}

// ValidateAll re-checks every held value against its domain and returns one
// message per violation. Values without a domain are never reported.
func (a *Assignment) ValidateAll() []string {
	var errs []string
	for name, value := range a.Values {
		domain, ok := a.Domains[name]
		if !ok {
			continue
		}
		if !domain.IsValidValue(value) {
			errs = append(errs, fmt.Sprintf("variable %q has invalid value %v for domain %s", name, value, domain.Type))
		}
	}
	return errs
}

// Clone returns a deep copy of the assignment.
func (a *Assignment) Clone() *Assignment {
	out := NewAssignment()
	for k, v := range a.Values {
		out.Values[k] = v
	}
	for k, d := range a.Domains {
		constraints := make(map[string]any, len(d.Constraints))
		for ck, cv := range d.Constraints {
			constraints[ck] = cv
		}
		out.Domains[k] = Domain{Name: d.Name, Type: d.Type, Constraints: constraints}
	}
	for k, deps := range a.Dependencies {
		out.Dependencies[k] = append([]string(nil), deps...)
	}
	return out
}

// Equal reports whether two assignments hold the same values, domains and
// dependencies.
func (a *Assignment) Equal(other *Assignment) bool {
	if other == nil {
		return false
	}
	if len(a.Values) != len(other.Values) || len(a.Domains) != len(other.Domains) ||
		len(a.Dependencies) != len(other.Dependencies) {
		return false
	}
	for k, v := range a.Values {
		ov, ok := other.Values[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	for k, d := range a.Domains {
		od, ok := other.Domains[k]
		if !ok || od.Name != d.Name || od.Type != d.Type || len(od.Constraints) != len(d.Constraints) {
			return false
		}
		for ck, cv := range d.Constraints {
			ocv, ok := od.Constraints[ck]
			if !ok || !valueEqual(cv, ocv) {
				return false
			}
		}
	}
	for k, deps := range a.Dependencies {
		odeps, ok := other.Dependencies[k]
		if !ok || len(odeps) != len(deps) {
			return false
		}
		for i := range deps {
			if deps[i] != odeps[i] {
				return false
			}
		}
	}
	return true
}

func (a *Assignment) String() string {
	return fmt.Sprintf("Assignment(assigned=%d, domains=%d)", len(a.Values), len(a.Domains))
}
