package lint

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Kind classifies a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	KindViolation      Kind = "violation"
	KindConfig         Kind = "config"
	KindRuleFault      Kind = "rule_fault"
	KindSkippedFix     Kind = "skipped_fix"
	KindNonConvergence Kind = "non_convergence"
)

// Diagnostic is one entry of a report.
type Diagnostic struct {
	Kind     Kind           `json:"kind" yaml:"kind"`
	RuleID   string         `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	RuleName string         `json:"rule_name,omitempty" yaml:"rule_name,omitempty"`
	Severity Severity       `json:"severity" yaml:"severity"`
	Message  string         `json:"message" yaml:"message"`
	Pos      token.Position `json:"pos" yaml:"pos"`
	EndPos   token.Position `json:"end_pos" yaml:"end_pos"`

	// Remediation metadata
	DocumentationURL string `json:"documentation_url,omitempty" yaml:"documentation_url,omitempty"`
	AutoFixable      bool   `json:"auto_fixable" yaml:"auto_fixable"`
}

// RuleInfoEntry is rule metadata as listed by tooling.
type RuleInfoEntry struct {
	core.RuleInfo    `yaml:",inline"`
	DocumentationURL string `json:"documentation_url" yaml:"documentation_url"`
}

// Report is the result of linting one source text.
type Report struct {
	Dialect     string       `json:"dialect" yaml:"dialect"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Violations returns only the rule violations.
func (r *Report) Violations() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == KindViolation {
			out = append(out, d)
		}
	}
	return out
}

// HasViolations reports whether any violation is at least as severe as min.
func (r *Report) HasViolations(min Severity) bool {
	for _, d := range r.Violations() {
		if d.Severity.AtLeast(min) {
			return true
		}
	}
	return false
}

// ByRule returns the violations of one rule.
func (r *Report) ByRule(ruleID string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Violations() {
		if d.RuleID == ruleID {
			out = append(out, d)
		}
	}
	return out
}

// LoopState is the state of the fix loop.
type LoopState int

// Loop states.
const (
	StateCrawling LoopState = iota
	StateApplying
	StateConverged
	StateNonConverged
)

// String returns the state name.
func (s LoopState) String() string {
	switch s {
	case StateCrawling:
		return "crawling"
	case StateApplying:
		return "applying"
	case StateConverged:
		return "converged"
	case StateNonConverged:
		return "non_converged"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name.
func (s LoopState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AppliedFix records a fix group applied during a loop.
type AppliedFix struct {
	RuleID string `json:"rule_id" yaml:"rule_id"`
	Loop   int    `json:"loop" yaml:"loop"`
	Edits  int    `json:"edits" yaml:"edits"`
}

// FixResult is the outcome of fixing one source text.
type FixResult struct {
	Dialect string           `json:"dialect" yaml:"dialect"`
	Source  string           `json:"-" yaml:"-"`
	Fixed   string           `json:"fixed" yaml:"fixed"`
	Tree    *segment.Segment `json:"-" yaml:"-"`
	State   LoopState        `json:"state" yaml:"state"`
	Loops   int              `json:"loops" yaml:"loops"`
	Applied []AppliedFix     `json:"applied,omitempty" yaml:"applied,omitempty"`
	Skipped []SkippedFix     `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Diagnostics holds what remains after fixing, plus engine diagnostics.
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Changed reports whether fixing altered the text.
func (r *FixResult) Changed() bool {
	return r.Fixed != r.Source
}

// Converged reports whether the loop reached a fixed point.
func (r *FixResult) Converged() bool {
	return r.State == StateConverged
}

// Report returns the remaining diagnostics as a Report.
func (r *FixResult) Report() *Report {
	return &Report{Dialect: r.Dialect, Diagnostics: r.Diagnostics}
}

func sortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Pos.Line, b.Pos.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Pos.Column, b.Pos.Column)
	})
}
