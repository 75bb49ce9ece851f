package convention

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewPreferLeftJoin())
}

// PreferLeftJoin recommends LEFT JOIN over RIGHT JOIN.
type PreferLeftJoin struct{ lint.BaseRule }

// NewPreferLeftJoin returns the CV08 rule.
func NewPreferLeftJoin() PreferLeftJoin {
	return PreferLeftJoin{lint.NewBaseRule(lint.RuleDef{
		ID:          "CV08",
		Name:        "convention.left_join",
		Group:       "convention",
		Description: "Use LEFT JOIN instead of RIGHT JOIN.",
		Severity:    lint.SeverityHint,
		Crawler:     lint.SeekTypes(segment.TypeJoinClause),
		Rationale:   "Reading joins left to right is easier when every outer join keeps its left side.",
	})}
}

// LoadFromConfig implements lint.Rule.
func (r PreferLeftJoin) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r PreferLeftJoin) Eval(ctx *lint.RuleContext) []lint.LintResult {
	kw, ok := ctx.Segment.Child(segment.TypeKeyword)
	if !ok || kw.RawUpper() != "RIGHT" {
		return nil
	}
	return []lint.LintResult{{Anchor: kw}}
}
