package generate

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/variable"
)

// Assignment strategies.
const (
	StrategyRandom     = "random"
	StrategySystematic = "systematic"
	StrategyHeuristic  = "heuristic"
)

// VariableAssigner fills variable assignments for a structure. Variables
// are declared inside component and relationship properties as maps with a
// "variable" key describing the domain.
type VariableAssigner struct {
	rng *rand.Rand
}

// NewVariableAssigner creates an assigner seeded for reproducible output.
func NewVariableAssigner(seed int64) *VariableAssigner {
	return &VariableAssigner{rng: rand.New(rand.NewSource(seed))}
}

// Assign extracts the variables declared in the structure and assigns every
// one of them using the named strategy.
func (a *VariableAssigner) Assign(s *design.Structure, strategy string) (*variable.Assignment, error) {
	assignment := ExtractVariables(s)

	switch strategy {
	case StrategyRandom:
		return a.assignRandom(assignment)
	case StrategySystematic:
		return a.assignSystematic(assignment)
	case StrategyHeuristic:
		return a.assignHeuristic(assignment)
	}
	return nil, &AssignmentError{Reason: fmt.Sprintf("unknown assignment strategy: %s", strategy)}
}

// Space returns the assignment space spanned by the structure's variables.
func (a *VariableAssigner) Space(s *design.Structure) *variable.Space {
	assignment := ExtractVariables(s)
	return variable.NewSpace(assignment.Domains, assignment.Dependencies)
}

// ModifyAssignment sets one variable on a copy of the assignment, validating
// the value against its domain and re-checking dependencies. When the edit
// breaks a dependency, a full reassignment in dependency order is attempted
// before giving up.
func (a *VariableAssigner) ModifyAssignment(assignment *variable.Assignment, name string, value any) (*variable.Assignment, error) {
	return a.ModifyAssignmentBatch(assignment, map[string]any{name: value})
}

// ModifyAssignmentBatch applies several variable edits at once under the
// same validation rules as ModifyAssignment.
func (a *VariableAssigner) ModifyAssignmentBatch(assignment *variable.Assignment, edits map[string]any) (*variable.Assignment, error) {
	out := assignment.Clone()
	for name, value := range edits {
		if domain, ok := out.Domains[name]; ok && !domain.IsValidValue(value) {
			return nil, &AssignmentError{
				Variable: name,
				Value:    value,
				Reason:   fmt.Sprintf("value not valid for domain %s", domain.Type),
			}
		}
		if err := out.Set(name, value); err != nil {
			return nil, &AssignmentError{Variable: name, Value: value, Reason: "set failed", Err: err}
		}
	}

	if violations := a.ValidateDependencies(out); len(violations) != 0 {
		resolved := a.ResolveDependencyConflicts(out)
		if remaining := a.ValidateDependencies(resolved); len(remaining) != 0 {
			return nil, &AssignmentError{
				Reason: "unresolvable dependency violations: " + strings.Join(violations, "; "),
			}
		}
		return resolved, nil
	}
	if !out.IsConsistent() {
		return nil, &AssignmentError{Reason: "edit violates consistency constraints"}
	}
	return out, nil
}

// ValidateDependencies returns one message per assigned variable whose
// dependency is missing a value.
func (a *VariableAssigner) ValidateDependencies(assignment *variable.Assignment) []string {
	var violations []string
	for _, name := range sortedKeys(assignment.Dependencies) {
		if !assignment.Has(name) {
			continue
		}
		for _, dep := range assignment.Dependencies[name] {
			if !assignment.Has(dep) {
				violations = append(violations, fmt.Sprintf("variable %q depends on %q which is not assigned", name, dep))
			}
		}
	}
	return violations
}

// ResolveDependencyConflicts reassigns every domained variable in
// dependency order. The input is never mutated; when resolution cannot
// produce a clean assignment the original is returned.
func (a *VariableAssigner) ResolveDependencyConflicts(assignment *variable.Assignment) *variable.Assignment {
	if len(a.ValidateDependencies(assignment)) == 0 {
		return assignment.Clone()
	}

	resolved := assignment.Clone()
	resolved.Values = make(map[string]any)
	for _, name := range topologicalOrder(resolved) {
		domain, ok := resolved.Domains[name]
		if !ok {
			continue
		}
		if err := resolved.Set(name, domain.SampleValue()); err != nil {
			return assignment
		}
	}
	return resolved
}

func (a *VariableAssigner) assignRandom(assignment *variable.Assignment) (*variable.Assignment, error) {
	names := sortedKeys(assignment.Domains)
	a.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	for _, name := range names {
		if err := assignment.Set(name, a.randomValue(assignment.Domains[name])); err != nil {
			return nil, &AssignmentError{Variable: name, Reason: "random value rejected", Err: err}
		}
	}
	return assignment, nil
}

func (a *VariableAssigner) assignSystematic(assignment *variable.Assignment) (*variable.Assignment, error) {
	for _, name := range topologicalOrder(assignment) {
		domain := assignment.Domains[name]
		if err := assignment.Set(name, domain.SampleValue()); err != nil {
			return nil, &AssignmentError{Variable: name, Reason: "sample value rejected", Err: err}
		}
	}
	return assignment, nil
}

func (a *VariableAssigner) assignHeuristic(assignment *variable.Assignment) (*variable.Assignment, error) {
	names := sortedKeys(assignment.Domains)
	sort.SliceStable(names, func(i, j int) bool {
		return constraintScore(assignment.Domains[names[i]]) > constraintScore(assignment.Domains[names[j]])
	})

	for _, name := range names {
		if err := assignment.Set(name, heuristicValue(assignment.Domains[name])); err != nil {
			return nil, &AssignmentError{Variable: name, Reason: "heuristic value rejected", Err: err}
		}
	}
	return assignment, nil
}

// ExtractVariables collects the domains and dependencies declared in
// component and relationship properties. A property declares a variable
// when its value is a map carrying a "variable" key; the variable is named
// "<owner id>.<property>".
func ExtractVariables(s *design.Structure) *variable.Assignment {
	assignment := variable.NewAssignment()

	for _, comp := range s.Components {
		for propName, propValue := range comp.Properties {
			info, ok := variableInfo(propValue)
			if !ok {
				continue
			}
			name := comp.ID + "." + propName
			assignment.AddDomain(domainFromInfo(name, info))
			if deps := dependencyNames(info); len(deps) != 0 {
				resolved := make([]string, 0, len(deps))
				for _, dep := range deps {
					if !strings.Contains(dep, ".") {
						dep = comp.ID + "." + dep
					}
					resolved = append(resolved, dep)
				}
				assignment.AddDependency(name, resolved)
			}
		}
	}

	for _, rel := range s.Relationships {
		for propName, propValue := range rel.Properties {
			info, ok := variableInfo(propValue)
			if !ok {
				continue
			}
			name := rel.ID + "." + propName
			assignment.AddDomain(domainFromInfo(name, info))
			if deps := dependencyNames(info); len(deps) != 0 {
				var resolved []string
				for _, dep := range deps {
					if strings.Contains(dep, ".") {
						resolved = append(resolved, dep)
						continue
					}
					// Unqualified relationship dependencies may live on
					// either endpoint.
					resolved = append(resolved, rel.SourceID+"."+dep, rel.TargetID+"."+dep)
				}
				assignment.AddDependency(name, resolved)
			}
		}
	}

	return assignment
}

func variableInfo(propValue any) (map[string]any, bool) {
	m, ok := propValue.(map[string]any)
	if !ok {
		return nil, false
	}
	info, ok := m["variable"].(map[string]any)
	return info, ok
}

func domainFromInfo(name string, info map[string]any) variable.Domain {
	typ, _ := info["type"].(string)
	if typ == "" {
		typ = variable.TypeString
	}
	constraints, _ := info["constraints"].(map[string]any)
	return variable.NewDomain(name, typ, constraints)
}

func dependencyNames(info map[string]any) []string {
	switch deps := info["depends_on"].(type) {
	case string:
		return []string{deps}
	case []string:
		return deps
	case []any:
		var out []string
		for _, d := range deps {
			if s, ok := d.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// topologicalOrder sorts domained variables so dependencies come first
// (Kahn's algorithm). A cycle falls back to name order.
func topologicalOrder(assignment *variable.Assignment) []string {
	names := sortedKeys(assignment.Domains)
	inDegree := make(map[string]int, len(names))
	graph := make(map[string][]string, len(names))
	for _, name := range names {
		inDegree[name] = 0
	}
	for _, name := range names {
		for _, dep := range assignment.Dependencies[name] {
			if _, known := inDegree[dep]; known {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
	}

	var queue []string
	for _, name := range names {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	var order []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)
		for _, next := range graph[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != len(names) {
		return names
	}
	return order
}

// constraintScore ranks domains most-constrained-first for the heuristic
// strategy.
func constraintScore(d variable.Domain) int {
	score := 0
	switch d.Type {
	case variable.TypeEnum, variable.TypeBool:
		score += 10
	case variable.TypeInt, variable.TypeRange:
		score += 5
	default:
		score++
	}
	if _, ok := d.Constraints["min"]; ok {
		score += 3
	} else if _, ok := d.Constraints["max"]; ok {
		score += 3
	}
	if d.Type == variable.TypeEnum {
		if size, ok := d.Size(); ok && size < 10 {
			score += 10 - size
		}
	}
	return score
}

func (a *VariableAssigner) randomValue(d variable.Domain) any {
	switch d.Type {
	case variable.TypeInt, variable.TypeRange:
		min, max := intBounds(d, 0, 100)
		return min + a.rng.Intn(max-min+1)
	case variable.TypeFloat:
		min, max := floatBounds(d, 0.0, 1.0)
		return min + a.rng.Float64()*(max-min)
	case variable.TypeBool:
		return a.rng.Intn(2) == 0
	case variable.TypeEnum:
		if values, ok := d.Constraints["values"].([]any); ok && len(values) > 0 {
			return values[a.rng.Intn(len(values))]
		}
		return "default"
	case variable.TypeString:
		const chars = "abcdefghijklmnopqrstuvwxyz"
		length := 1 + a.rng.Intn(10)
		var b strings.Builder
		for i := 0; i < length; i++ {
			b.WriteByte(chars[a.rng.Intn(len(chars))])
		}
		return b.String()
	}
	return d.SampleValue()
}

// heuristicValue prefers midpoints for numeric domains and first choices
// elsewhere.
func heuristicValue(d variable.Domain) any {
	switch d.Type {
	case variable.TypeInt, variable.TypeRange:
		min, max := intBounds(d, 0, 100)
		return (min + max) / 2
	case variable.TypeFloat:
		min, max := floatBounds(d, 0.0, 1.0)
		return (min + max) / 2.0
	case variable.TypeBool:
		return false
	case variable.TypeEnum:
		if values, ok := d.Constraints["values"].([]any); ok && len(values) > 0 {
			return values[0]
		}
		return "default"
	}
	return d.SampleValue()
}

func intBounds(d variable.Domain, defMin, defMax int) (int, int) {
	min, max := defMin, defMax
	if v, ok := numericConstraint(d, "min"); ok {
		min = int(v)
	}
	if v, ok := numericConstraint(d, "max"); ok {
		max = int(v)
	}
	if max < min {
		max = min
	}
	return min, max
}

func floatBounds(d variable.Domain, defMin, defMax float64) (float64, float64) {
	min, max := defMin, defMax
	if v, ok := numericConstraint(d, "min"); ok {
		min = v
	}
	if v, ok := numericConstraint(d, "max"); ok {
		max = v
	}
	if max < min {
		max = min
	}
	return min, max
}

func numericConstraint(d variable.Domain, key string) (float64, bool) {
	switch v := d.Constraints[key].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
