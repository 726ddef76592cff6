package constraint

import (
	"fmt"
	"strings"

	"github.com/dsxplore/go-dsx/design"
)

// ComponentCount bounds the number of components in a structure. A nil
// bound means unbounded on that side.
type ComponentCount struct {
	id  string
	min *int
	max *int
}

// NewComponentCount creates a component count constraint. Pass a negative
// value to leave a bound open.
func NewComponentCount(id string, min, max int) *ComponentCount {
	c := &ComponentCount{id: id}
	if min >= 0 {
		c.min = &min
	}
	if max >= 0 {
		c.max = &max
	}
	return c
}

func (c *ComponentCount) ID() string         { return c.id }
func (c *ComponentCount) Category() Category { return Structural }
func (c *ComponentCount) Kind() Kind         { return KindComponentCount }

func (c *ComponentCount) Description() string {
	return fmt.Sprintf("component count between %s and %s", boundString(c.min), boundString(c.max))
}

func (c *ComponentCount) IsSatisfied(d *design.Object) (bool, error) {
	count := len(d.Structure.Components)
	if c.min != nil && count < *c.min {
		return false, nil
	}
	if c.max != nil && count > *c.max {
		return false, nil
	}
	return true, nil
}

func (c *ComponentCount) ViolationMessage(d *design.Object) string {
	return fmt.Sprintf("component count %d violates bounds [%s, %s]",
		len(d.Structure.Components), boundString(c.min), boundString(c.max))
}

// MinComponents implements ComponentBoundProvider.
func (c *ComponentCount) MinComponents() (int, bool) {
	if c.min == nil {
		return 0, false
	}
	return *c.min, true
}

// MaxComponents implements ComponentBoundProvider.
func (c *ComponentCount) MaxComponents() (int, bool) {
	if c.max == nil {
		return 0, false
	}
	return *c.max, true
}

// VariableRange requires a variable to be assigned and inside [min, max].
// Non-numeric values fail the check rather than erroring out.
type VariableRange struct {
	id       string
	variable string
	min      *float64
	max      *float64
}

// NewVariableRange creates a range constraint on one variable. Nil bounds
// are open.
func NewVariableRange(id, variable string, min, max *float64) *VariableRange {
	return &VariableRange{id: id, variable: variable, min: min, max: max}
}

func (c *VariableRange) ID() string         { return c.id }
func (c *VariableRange) Category() Category { return Variable }
func (c *VariableRange) Kind() Kind         { return KindVariableRange }

func (c *VariableRange) Description() string {
	return fmt.Sprintf("variable %s range constraint", c.variable)
}

func (c *VariableRange) IsSatisfied(d *design.Object) (bool, error) {
	v, err := d.Variables.Get(c.variable)
	if err != nil {
		return false, nil
	}
	f, ok := asNumber(v)
	if !ok {
		return false, nil
	}
	if c.min != nil && f < *c.min {
		return false, nil
	}
	if c.max != nil && f > *c.max {
		return false, nil
	}
	return true, nil
}

func (c *VariableRange) ViolationMessage(d *design.Object) string {
	v, err := d.Variables.Get(c.variable)
	if err != nil {
		return fmt.Sprintf("variable %q is not assigned", c.variable)
	}
	return fmt.Sprintf("variable %q value %v violates range [%s, %s]",
		c.variable, v, floatBoundString(c.min), floatBoundString(c.max))
}

// ComponentProperty requires every component of one type to carry a
// property, optionally pinned to a value or a numeric range. Vacuously
// satisfied when no component of the type exists.
type ComponentProperty struct {
	id            string
	componentType string
	property      string
	expected      any
	min           *float64
	max           *float64
}

// NewComponentProperty creates a property constraint. expected may be nil;
// min/max may be nil for open bounds.
func NewComponentProperty(id, componentType, property string, expected any, min, max *float64) *ComponentProperty {
	return &ComponentProperty{
		id:            id,
		componentType: componentType,
		property:      property,
		expected:      expected,
		min:           min,
		max:           max,
	}
}

func (c *ComponentProperty) ID() string         { return c.id }
func (c *ComponentProperty) Category() Category { return Structural }
func (c *ComponentProperty) Kind() Kind         { return KindComponentProperty }

func (c *ComponentProperty) Description() string {
	return fmt.Sprintf("component %s property %s constraint", c.componentType, c.property)
}

func (c *ComponentProperty) IsSatisfied(d *design.Object) (bool, error) {
	for _, comp := range d.Structure.Components {
		if comp.Type != c.componentType {
			continue
		}
		ok, _ := c.check(comp)
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c *ComponentProperty) ViolationMessage(d *design.Object) string {
	for _, comp := range d.Structure.Components {
		if comp.Type != c.componentType {
			continue
		}
		if ok, msg := c.check(comp); !ok {
			return msg
		}
	}
	return "component property constraint violated"
}

func (c *ComponentProperty) check(comp design.Component) (bool, string) {
	value, present := comp.Properties[c.property]
	if !present {
		return false, fmt.Sprintf("component %s of type %s missing property %s", comp.ID, c.componentType, c.property)
	}
	if c.expected != nil && fmt.Sprint(value) != fmt.Sprint(c.expected) {
		return false, fmt.Sprintf("component %s property %s is %v, expected %v", comp.ID, c.property, value, c.expected)
	}
	if c.min != nil || c.max != nil {
		f, ok := asNumber(value)
		if !ok {
			return false, fmt.Sprintf("component %s property %s is %v, expected a number", comp.ID, c.property, value)
		}
		if c.min != nil && f < *c.min {
			return false, fmt.Sprintf("component %s property %s is %v, minimum %v", comp.ID, c.property, value, *c.min)
		}
		if c.max != nil && f > *c.max {
			return false, fmt.Sprintf("component %s property %s is %v, maximum %v", comp.ID, c.property, value, *c.max)
		}
	}
	return true, ""
}

// RelationshipPattern requires (or forbids) an edge of one type between a
// source component type and a target component type.
type RelationshipPattern struct {
	id               string
	sourceType       string
	targetType       string
	relationshipType string
	required         bool
}

// NewRelationshipPattern creates a pattern constraint. required selects
// between demanding and forbidding the pattern.
func NewRelationshipPattern(id, sourceType, targetType, relationshipType string, required bool) *RelationshipPattern {
	return &RelationshipPattern{
		id:               id,
		sourceType:       sourceType,
		targetType:       targetType,
		relationshipType: relationshipType,
		required:         required,
	}
}

func (c *RelationshipPattern) ID() string         { return c.id }
func (c *RelationshipPattern) Category() Category { return Structural }
func (c *RelationshipPattern) Kind() Kind         { return KindRelationshipPattern }

func (c *RelationshipPattern) Description() string {
	return fmt.Sprintf("relationship pattern %s -> %s via %s", c.sourceType, c.targetType, c.relationshipType)
}

func (c *RelationshipPattern) IsSatisfied(d *design.Object) (bool, error) {
	typeOf := make(map[string]string, len(d.Structure.Components))
	haveSource, haveTarget := false, false
	for _, comp := range d.Structure.Components {
		typeOf[comp.ID] = comp.Type
		if comp.Type == c.sourceType {
			haveSource = true
		}
		if comp.Type == c.targetType {
			haveTarget = true
		}
	}
	// Without both endpoint types the pattern cannot occur.
	if !haveSource || !haveTarget {
		return !c.required, nil
	}

	exists := false
	for _, rel := range d.Structure.Relationships {
		if rel.Type == c.relationshipType &&
			typeOf[rel.SourceID] == c.sourceType &&
			typeOf[rel.TargetID] == c.targetType {
			exists = true
			break
		}
	}
	if c.required {
		return exists, nil
	}
	return !exists, nil
}

func (c *RelationshipPattern) ViolationMessage(d *design.Object) string {
	if c.required {
		return fmt.Sprintf("required relationship pattern not found: %s -> %s via %s",
			c.sourceType, c.targetType, c.relationshipType)
	}
	return fmt.Sprintf("forbidden relationship pattern found: %s -> %s via %s",
		c.sourceType, c.targetType, c.relationshipType)
}

// Connectivity modes.
const (
	Connected      = "connected"
	FullyConnected = "fully_connected"
	Acyclic        = "acyclic"
)

// Connectivity checks a graph-level property of the structure. Structures
// with at most one component satisfy every mode.
type Connectivity struct {
	id   string
	mode string
}

// NewConnectivity creates a connectivity constraint for one of the modes
// above. Unknown modes are satisfied by every structure.
func NewConnectivity(id, mode string) *Connectivity {
	return &Connectivity{id: id, mode: mode}
}

func (c *Connectivity) ID() string         { return c.id }
func (c *Connectivity) Category() Category { return Structural }
func (c *Connectivity) Kind() Kind         { return KindConnectivity }

func (c *Connectivity) Description() string {
	return fmt.Sprintf("connectivity constraint: %s", c.mode)
}

func (c *Connectivity) IsSatisfied(d *design.Object) (bool, error) {
	s := d.Structure
	if len(s.Components) <= 1 {
		return true, nil
	}
	switch c.mode {
	case Connected:
		return isConnected(s), nil
	case FullyConnected:
		return isFullyConnected(s), nil
	case Acyclic:
		return isAcyclic(s), nil
	}
	return true, nil
}

func (c *Connectivity) ViolationMessage(d *design.Object) string {
	switch c.mode {
	case Connected:
		return "structure is not connected - some components are isolated"
	case FullyConnected:
		return "structure is not fully connected - missing required connections"
	case Acyclic:
		return "structure contains cycles - must be acyclic"
	}
	return fmt.Sprintf("connectivity constraint %s violated", c.mode)
}

// isConnected treats relationships as undirected and checks that every
// component is reachable from the first one.
func isConnected(s *design.Structure) bool {
	if len(s.Components) == 0 {
		return true
	}
	adjacency := make(map[string][]string, len(s.Components))
	for _, c := range s.Components {
		adjacency[c.ID] = nil
	}
	for _, r := range s.Relationships {
		adjacency[r.SourceID] = append(adjacency[r.SourceID], r.TargetID)
		adjacency[r.TargetID] = append(adjacency[r.TargetID], r.SourceID)
	}

	visited := make(map[string]bool, len(s.Components))
	stack := []string{s.Components[0].ID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range adjacency[current] {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return len(visited) == len(s.Components)
}

// isFullyConnected counts distinct undirected pairs; self-loops do not
// count toward full connectivity.
func isFullyConnected(s *design.Structure) bool {
	n := len(s.Components)
	if n <= 1 {
		return true
	}
	pairs := make(map[string]bool)
	for _, r := range s.Relationships {
		if r.SourceID == r.TargetID {
			continue
		}
		a, b := r.SourceID, r.TargetID
		if a > b {
			a, b = b, a
		}
		pairs[a+"\x00"+b] = true
	}
	return len(pairs) >= n*(n-1)/2
}

// isAcyclic runs three-color DFS over the directed relationship graph.
func isAcyclic(s *design.Structure) bool {
	adjacency := make(map[string][]string, len(s.Components))
	for _, c := range s.Components {
		adjacency[c.ID] = nil
	}
	for _, r := range s.Relationships {
		adjacency[r.SourceID] = append(adjacency[r.SourceID], r.TargetID)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(s.Components))

	var visit func(node string) bool
	visit = func(node string) bool {
		switch color[node] {
		case gray:
			return false
		case black:
			return true
		}
		color[node] = gray
		for _, next := range adjacency[node] {
			if !visit(next) {
				return false
			}
		}
		color[node] = black
		return true
	}

	for _, c := range s.Components {
		if color[c.ID] == white && !visit(c.ID) {
			return false
		}
	}
	return true
}

// Resource caps the summed usage of one named resource across component
// properties and variables prefixed "<resource>_". Non-numeric contributors
// are ignored.
type Resource struct {
	id       string
	resource string
	maxUsage float64
}

// NewResource creates a resource budget constraint.
func NewResource(id, resource string, maxUsage float64) *Resource {
	return &Resource{id: id, resource: resource, maxUsage: maxUsage}
}

func (c *Resource) ID() string         { return c.id }
func (c *Resource) Category() Category { return Global }
func (c *Resource) Kind() Kind         { return KindResource }

func (c *Resource) Description() string {
	return fmt.Sprintf("resource constraint for %s", c.resource)
}

func (c *Resource) IsSatisfied(d *design.Object) (bool, error) {
	return c.usage(d) <= c.maxUsage, nil
}

func (c *Resource) ViolationMessage(d *design.Object) string {
	return fmt.Sprintf("resource %s usage %v exceeds limit %v", c.resource, c.usage(d), c.maxUsage)
}

func (c *Resource) usage(d *design.Object) float64 {
	total := 0.0
	for _, comp := range d.Structure.Components {
		if v, ok := comp.Properties[c.resource]; ok {
			if f, isNum := asNumber(v); isNum {
				total += f
			}
		}
	}
	prefix := c.resource + "_"
	for name, value := range d.Variables.Values {
		if strings.HasPrefix(name, prefix) {
			if f, isNum := asNumber(value); isNum {
				total += f
			}
		}
	}
	return total
}

// Rule is one condition a dependency variable must meet. Zero-value fields
// are not checked.
type Rule struct {
	Equals    any
	NotEquals any
	Min       *float64
	Max       *float64
}

// VariableDependency requires that, whenever the dependent variable is
// assigned, each rule variable is assigned and meets its rule. Vacuously
// satisfied while the dependent variable is unassigned.
type VariableDependency struct {
	id        string
	dependent string
	rules     map[string]Rule
}

// NewVariableDependency creates a dependency constraint.
func NewVariableDependency(id, dependent string, rules map[string]Rule) *VariableDependency {
	return &VariableDependency{id: id, dependent: dependent, rules: rules}
}

func (c *VariableDependency) ID() string         { return c.id }
func (c *VariableDependency) Category() Category { return Variable }
func (c *VariableDependency) Kind() Kind         { return KindVariableDependency }

func (c *VariableDependency) Description() string {
	return fmt.Sprintf("variable dependency constraint for %s", c.dependent)
}

func (c *VariableDependency) IsSatisfied(d *design.Object) (bool, error) {
	if !d.Variables.Has(c.dependent) {
		return true, nil
	}
	for ruleVar, rule := range c.rules {
		if ok, _ := c.checkRule(d, ruleVar, rule); !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c *VariableDependency) ViolationMessage(d *design.Object) string {
	if !d.Variables.Has(c.dependent) {
		return fmt.Sprintf("dependent variable %s is not assigned", c.dependent)
	}
	for ruleVar, rule := range c.rules {
		if ok, msg := c.checkRule(d, ruleVar, rule); !ok {
			return msg
		}
	}
	return fmt.Sprintf("variable dependency constraint violated for %s", c.dependent)
}

func (c *VariableDependency) checkRule(d *design.Object, ruleVar string, rule Rule) (bool, string) {
	value, err := d.Variables.Get(ruleVar)
	if err != nil {
		return false, fmt.Sprintf("dependency variable %s is not assigned", ruleVar)
	}
	if rule.Equals != nil && fmt.Sprint(value) != fmt.Sprint(rule.Equals) {
		return false, fmt.Sprintf("variable %s is %v, expected %v", ruleVar, value, rule.Equals)
	}
	if rule.NotEquals != nil && fmt.Sprint(value) == fmt.Sprint(rule.NotEquals) {
		return false, fmt.Sprintf("variable %s is %v, must not equal %v", ruleVar, value, rule.NotEquals)
	}
	if rule.Min != nil || rule.Max != nil {
		f, ok := asNumber(value)
		if !ok {
			return false, fmt.Sprintf("variable %s is %v, expected a number", ruleVar, value)
		}
		if rule.Min != nil && f < *rule.Min {
			return false, fmt.Sprintf("variable %s is %v, minimum %v", ruleVar, value, *rule.Min)
		}
		if rule.Max != nil && f > *rule.Max {
			return false, fmt.Sprintf("variable %s is %v, maximum %v", ruleVar, value, *rule.Max)
		}
	}
	return true, ""
}

func boundString(b *int) string {
	if b == nil {
		return "unbounded"
	}
	return fmt.Sprintf("%d", *b)
}

func floatBoundString(b *float64) string {
	if b == nil {
		return "unbounded"
	}
	return fmt.Sprintf("%v", *b)
}

func asNumber(v any) (float64, bool) {
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

// Float is a convenience for building optional bounds in place.
func Float(v float64) *float64 { return &v }
