package references

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewConsistentQualification())
}

// ConsistentQualification enforces consistent column qualification style.
type ConsistentQualification struct{ lint.BaseRule }

// NewConsistentQualification returns the RF03 rule.
func NewConsistentQualification() ConsistentQualification {
	return ConsistentQualification{lint.NewBaseRule(lint.RuleDef{
		ID:          "RF03",
		Name:        "references.consistent",
		Group:       "references",
		Description: "Mixed column qualification style; some columns are qualified, others are not.",
		Severity:    lint.SeverityInfo,
		Crawler:     lint.SeekTypes(segment.TypeSelectStatement),
	})}
}

// LoadFromConfig implements lint.Rule.
func (r ConsistentQualification) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r ConsistentQualification) Eval(ctx *lint.RuleContext) []lint.LintResult {
	refs := selectColumns(ctx.Segment)
	qualified := refs.Filter(isQualified)
	if len(qualified) == 0 || len(qualified) == len(refs) {
		return nil
	}
	// Point at the first reference breaking the style of the first one.
	first := isQualified(refs[0])
	anchor, _ := refs.FindFirst(func(s *segment.Segment) bool { return isQualified(s) != first })
	return []lint.LintResult{{Anchor: anchor}}
}
