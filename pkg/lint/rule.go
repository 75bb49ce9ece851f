package lint

import (
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Severity aliases core.Severity so rule packages need only import lint.
type Severity = core.Severity

// Severity levels re-exported from core.
const (
	SeverityError   = core.SeverityError
	SeverityWarning = core.SeverityWarning
	SeverityInfo    = core.SeverityInfo
	SeverityHint    = core.SeverityHint
)

// ParseSeverity parses a severity name; see core.ParseSeverity.
func ParseSeverity(s string) (Severity, bool) { return core.ParseSeverity(s) }

// =============================================================================
// Rule Interface
// =============================================================================

// Rule is a lint rule. A rule declares how the tree should be crawled and is
// evaluated once per crawled segment. Eval must not mutate the tree; it
// describes edits as fixes on its results.
type Rule interface {
	ID() string
	Name() string
	Group() string
	Description() string
	DefaultSeverity() Severity
	ConfigKeys() []string

	// CrawlBehaviour selects the segments Eval is called for.
	CrawlBehaviour() Crawler

	// LoadFromConfig returns a copy of the rule configured with the given
	// options. Invalid options yield a *ConfigError.
	LoadFromConfig(opts map[string]any) (Rule, error)

	// Eval inspects the context's segment. It may return nothing.
	Eval(ctx *RuleContext) []LintResult
}

// DialectRestricted is implemented by rules that only apply to some
// dialects. An empty list means every dialect.
type DialectRestricted interface {
	Dialects() []string
}

// Documented is implemented by rules that carry long-form documentation.
type Documented interface {
	Rationale() string
	BadExample() string
	GoodExample() string
	Fix() string
}

// Fixable is implemented by rules that can return fixes.
type Fixable interface {
	IsFixable() bool
}

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is the static description of a rule.
type RuleDef struct {
	ID          string   // Unique identifier, e.g. "CV05"
	Name        string   // Human-readable name, e.g. "convention.is_null"
	Group       string   // Category, e.g. "aliasing", "convention"
	Description string   // One-line description used as the default message
	Severity    Severity // Default severity
	ConfigKeys  []string // Options the rule reads
	Dialects    []string // Restrict to specific dialects; empty means all
	Crawler     Crawler  // Nil crawls the root only
	Fixable     bool     // The rule returns fixes

	// Documentation fields
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// BaseRule implements the descriptive part of Rule from a RuleDef. Concrete
// rules embed it and add LoadFromConfig and Eval.
type BaseRule struct {
	def RuleDef
}

// NewBaseRule wraps a definition.
func NewBaseRule(def RuleDef) BaseRule {
	return BaseRule{def: def}
}

func (b BaseRule) ID() string                { return b.def.ID }
func (b BaseRule) Name() string              { return b.def.Name }
func (b BaseRule) Group() string             { return b.def.Group }
func (b BaseRule) Description() string       { return b.def.Description }
func (b BaseRule) DefaultSeverity() Severity { return b.def.Severity }
func (b BaseRule) ConfigKeys() []string      { return b.def.ConfigKeys }
func (b BaseRule) Dialects() []string        { return b.def.Dialects }
func (b BaseRule) IsFixable() bool           { return b.def.Fixable }

// Documentation methods
func (b BaseRule) Rationale() string   { return b.def.Rationale }
func (b BaseRule) BadExample() string  { return b.def.BadExample }
func (b BaseRule) GoodExample() string { return b.def.GoodExample }
func (b BaseRule) Fix() string         { return b.def.Fix }

// CrawlBehaviour returns the definition's crawler, or RootOnly.
func (b BaseRule) CrawlBehaviour() Crawler {
	if b.def.Crawler == nil {
		return RootOnly{}
	}
	return b.def.Crawler
}

// Def returns the underlying definition.
func (b BaseRule) Def() RuleDef { return b.def }

// GetRuleInfo extracts metadata from a rule.
func GetRuleInfo(r Rule) core.RuleInfo {
	info := core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
	}
	if dr, ok := r.(DialectRestricted); ok {
		info.Dialects = dr.Dialects()
	}
	if f, ok := r.(Fixable); ok {
		info.Fixable = f.IsFixable()
	}
	if d, ok := r.(Documented); ok {
		info.Rationale = d.Rationale()
		info.BadExample = d.BadExample()
		info.GoodExample = d.GoodExample()
		info.Fix = d.Fix()
	}
	return info
}

// appliesTo reports whether r runs for the named dialect.
func appliesTo(r Rule, dialectName string) bool {
	dr, ok := r.(DialectRestricted)
	if !ok {
		return true
	}
	allowed := dr.Dialects()
	if len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, dialectName)
}
