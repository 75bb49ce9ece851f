package lint

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// globalRegistry is the catalog of every rule linked into the binary.
var globalRegistry = NewRegistry()

// Registry stores rules for discovery, keyed by ID.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule, replacing any rule with the same ID.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
}

// All returns every rule sorted by ID.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	slices.SortFunc(rules, func(a, b Rule) int { return strings.Compare(a.ID(), b.ID()) })
	return rules
}

// Get finds a rule by ID or name, case-insensitively.
func (r *Registry) Get(idOrName string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rule, ok := r.rules[strings.ToUpper(idOrName)]; ok {
		return rule, true
	}
	for _, rule := range r.rules {
		if strings.EqualFold(rule.Name(), idOrName) {
			return rule, true
		}
	}
	return nil, false
}

// ByGroup returns the rules in a group, sorted by ID.
func (r *Registry) ByGroup(group string) []Rule {
	var out []Rule
	for _, rule := range r.All() {
		if strings.EqualFold(rule.Group(), group) {
			out = append(out, rule)
		}
	}
	return out
}

// ByDialect returns rules applicable to a dialect. Rules without a dialect
// restriction are included.
func (r *Registry) ByDialect(dialectName string) []Rule {
	var out []Rule
	for _, rule := range r.All() {
		if appliesTo(rule, dialectName) {
			out = append(out, rule)
		}
	}
	return out
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Select resolves rule selectors into a RuleSet. A selector is "all", a rule
// ID, a rule name or a group. No selectors means every rule.
func (r *Registry) Select(selectors ...string) (*RuleSet, error) {
	all := r.All()
	if len(selectors) == 0 {
		return NewRuleSet(all...), nil
	}

	picked := make(map[string]bool)
	for _, sel := range selectors {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		if strings.EqualFold(sel, "all") {
			for _, rule := range all {
				picked[rule.ID()] = true
			}
			continue
		}
		if rule, ok := r.Get(sel); ok {
			picked[rule.ID()] = true
			continue
		}
		group := r.ByGroup(sel)
		if len(group) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, sel)
		}
		for _, rule := range group {
			picked[rule.ID()] = true
		}
	}

	var rules []Rule
	for _, rule := range all {
		if picked[rule.ID()] {
			rules = append(rules, rule)
		}
	}
	return NewRuleSet(rules...), nil
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule Rule) { globalRegistry.Register(rule) }

// AllRules returns every registered rule sorted by ID.
func AllRules() []Rule { return globalRegistry.All() }

// GetRuleByID finds a registered rule by ID or name.
func GetRuleByID(idOrName string) (Rule, bool) { return globalRegistry.Get(idOrName) }

// GetRulesByGroup returns the registered rules in a group.
func GetRulesByGroup(group string) []Rule { return globalRegistry.ByGroup(group) }

// GetRulesByDialect returns the registered rules applicable to a dialect.
func GetRulesByDialect(dialectName string) []Rule { return globalRegistry.ByDialect(dialectName) }

// SelectRules resolves selectors against the global registry.
func SelectRules(selectors ...string) (*RuleSet, error) {
	return globalRegistry.Select(selectors...)
}

// =============================================================================
// RuleSet
// =============================================================================

// RuleSet is an ordered selection of rules, as handed to a Linter.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet creates a rule set in the given order.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: slices.Clone(rules)}
}

// Rules returns the rules in order.
func (rs *RuleSet) Rules() []Rule { return slices.Clone(rs.rules) }

// Len returns the number of rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Without returns a copy without the rules matching any of the IDs or names.
func (rs *RuleSet) Without(idsOrNames ...string) *RuleSet {
	var kept []Rule
	for _, r := range rs.rules {
		drop := false
		for _, s := range idsOrNames {
			if strings.EqualFold(r.ID(), s) || strings.EqualFold(r.Name(), s) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, r)
		}
	}
	return NewRuleSet(kept...)
}

// Info returns the metadata of every rule in the set.
func (rs *RuleSet) Info() []RuleInfoEntry {
	out := make([]RuleInfoEntry, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = RuleInfoEntry{RuleInfo: GetRuleInfo(r), DocumentationURL: BuildDocURL(r.ID())}
	}
	return out
}
