package constraint

import "fmt"

// Set is an ordered collection of constraints grouped by category.
type Set struct {
	constraints []Constraint
}

// NewSet creates a constraint set holding the given constraints.
func NewSet(constraints ...Constraint) *Set {
	s := &Set{}
	for _, c := range constraints {
		s.Add(c)
	}
	return s
}

// Add appends a constraint, keeping insertion order within its category.
func (s *Set) Add(c Constraint) {
	s.constraints = append(s.constraints, c)
}

// Remove deletes the constraint with the given id. It reports whether a
// constraint was removed.
func (s *Set) Remove(id string) bool {
	for i, c := range s.constraints {
		if c.ID() == id {
			s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the constraint with the given id, or false if absent.
func (s *Set) Get(id string) (Constraint, bool) {
	for _, c := range s.constraints {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// All returns every constraint ordered structural, variable, then global.
func (s *Set) All() []Constraint {
	out := make([]Constraint, 0, len(s.constraints))
	for _, cat := range []Category{Structural, Variable, Global} {
		out = append(out, s.ByCategory(cat)...)
	}
	return out
}

// ByCategory returns the constraints of one category in insertion order.
func (s *Set) ByCategory(cat Category) []Constraint {
	var out []Constraint
	for _, c := range s.constraints {
		if c.Category() == cat {
			out = append(out, c)
		}
	}
	return out
}

// Bounds merges every ComponentBoundProvider in the set: the tightest
// (largest) minimum and the tightest (smallest) maximum win. Each bound
// comes with its own presence flag.
func (s *Set) Bounds() (min int, hasMin bool, max int, hasMax bool) {
	for _, c := range s.constraints {
		p, is := c.(ComponentBoundProvider)
		if !is {
			continue
		}
		if lo, has := p.MinComponents(); has && (!hasMin || lo > min) {
			min, hasMin = lo, true
		}
		if hi, has := p.MaxComponents(); has && (!hasMax || hi < max) {
			max, hasMax = hi, true
		}
	}
	return min, hasMin, max, hasMax
}

// Count returns the number of constraints per category.
func (s *Set) Count() map[Category]int {
	out := map[Category]int{Structural: 0, Variable: 0, Global: 0}
	for _, c := range s.constraints {
		out[c.Category()]++
	}
	return out
}

// Len returns the total number of constraints.
func (s *Set) Len() int {
	return len(s.constraints)
}

// IsEmpty reports whether the set holds no constraints.
func (s *Set) IsEmpty() bool {
	return len(s.constraints) == 0
}

func (s *Set) String() string {
	counts := s.Count()
	return fmt.Sprintf("Set(structural=%d, variable=%d, global=%d)",
		counts[Structural], counts[Variable], counts[Global])
}
