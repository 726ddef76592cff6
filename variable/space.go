package variable

// Space describes the combinatorial space spanned by a set of domains.
type Space struct {
	Domains      map[string]Domain
	Dependencies map[string][]string
}

// NewSpace creates an assignment space over the given domains.
func NewSpace(domains map[string]Domain, dependencies map[string][]string) *Space {
	if domains == nil {
		domains = make(map[string]Domain)
	}
	if dependencies == nil {
		dependencies = make(map[string][]string)
	}
	return &Space{Domains: domains, Dependencies: dependencies}
}

// VariableCount returns the number of variables in the space.
func (s *Space) VariableCount() int {
	return len(s.Domains)
}

// DomainSize returns the size of one variable's domain. It returns false
// when the variable is unknown or its domain is not finite.
func (s *Space) DomainSize(variable string) (int, bool) {
	domain, ok := s.Domains[variable]
	if !ok {
		return 0, false
	}
	return domain.Size()
}

// TotalCombinations estimates the number of complete assignments. It returns
// false as soon as any domain is infinite or continuous.
func (s *Space) TotalCombinations() (int, bool) {
	total := 1
	for name := range s.Domains {
		size, ok := s.DomainSize(name)
		if !ok {
			return 0, false
		}
		total *= size
	}
	return total, true
}
