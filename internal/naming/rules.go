package naming

import "strings"

// Rule is one case-sensitive literal substitution applied to a whole name.
type Rule struct {
	Name string
	Old  string
	New  string
}

// Rules is an ordered substitution table. Each rule sees the output of the
// previous one.
type Rules []Rule

// DefaultRules is the rename table for test files.
var DefaultRules = Rules{
	{Name: "underscore", Old: "_", New: "-"},
	{Name: "lox", Old: "lox", New: "lax"},
}

// Apply runs every rule over name in order, replacing all occurrences.
func (r Rules) Apply(name string) string {
	for _, rule := range r {
		name = strings.ReplaceAll(name, rule.Old, rule.New)
	}
	return name
}

// Matched returns the names of the rules that changed something in name,
// in table order. Used for debug logging.
func (r Rules) Matched(name string) []string {
	var hit []string
	for _, rule := range r {
		next := strings.ReplaceAll(name, rule.Old, rule.New)
		if next != name {
			hit = append(hit, rule.Name)
		}
		name = next
	}
	return hit
}

// NewName returns name rewritten by [DefaultRules].
func NewName(name string) string {
	return DefaultRules.Apply(name)
}
