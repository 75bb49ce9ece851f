package lint

import (
	"maps"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/layout"
)

// DefaultMaxLoops bounds the fix loop when the config leaves it unset.
const DefaultMaxLoops = 10

// Config controls which rules are enabled, their severity and options, and
// how the fix loop runs. Rule keys may be an ID or a name and are matched
// case-insensitively.
type Config struct {
	// DisabledRules contains rule IDs or names to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// RuleOptions holds per-rule options passed to LoadFromConfig
	RuleOptions map[string]map[string]any

	// MaxLoops bounds the number of fix cycles
	MaxLoops int

	// Layout overrides the default spacing policy
	Layout layout.Config
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
		MaxLoops:          DefaultMaxLoops,
	}
}

func ruleKey(s string) string { return strings.ToLower(s) }

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(r Rule) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleKey(r.ID())] || c.DisabledRules[ruleKey(r.Name())]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(r Rule) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleKey(r.ID())]; ok {
			return sev
		}
		if sev, ok := c.SeverityOverrides[ruleKey(r.Name())]; ok {
			return sev
		}
	}
	return r.DefaultSeverity()
}

// GetRuleOptions returns the options for a rule. Options keyed by name are
// merged first so options keyed by ID win.
func (c *Config) GetRuleOptions(r Rule) map[string]any {
	opts := make(map[string]any)
	if c == nil {
		return opts
	}
	maps.Copy(opts, c.RuleOptions[ruleKey(r.Name())])
	maps.Copy(opts, c.RuleOptions[ruleKey(r.ID())])
	return opts
}

// Disable disables a rule by ID or name.
func (c *Config) Disable(rule string) *Config {
	c.DisabledRules[ruleKey(rule)] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(rule string, severity Severity) *Config {
	c.SeverityOverrides[ruleKey(rule)] = severity
	return c
}

// SetRuleOptions sets the options for a rule.
func (c *Config) SetRuleOptions(rule string, opts map[string]any) *Config {
	c.RuleOptions[ruleKey(rule)] = opts
	return c
}

func (c *Config) maxLoops() int {
	if c == nil || c.MaxLoops <= 0 {
		return DefaultMaxLoops
	}
	return c.MaxLoops
}
