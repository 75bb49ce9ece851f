package ambiguous

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewDistinctWithGroupBy())
}

// DistinctWithGroupBy detects redundant DISTINCT with GROUP BY.
type DistinctWithGroupBy struct{ lint.BaseRule }

// NewDistinctWithGroupBy returns the AM01 rule.
func NewDistinctWithGroupBy() DistinctWithGroupBy {
	return DistinctWithGroupBy{lint.NewBaseRule(lint.RuleDef{
		ID:          "AM01",
		Name:        "ambiguous.distinct",
		Group:       "ambiguous",
		Description: "Ambiguous use of 'DISTINCT' in a 'SELECT' statement with 'GROUP BY'.",
		Severity:    lint.SeverityWarning,
		Crawler:     lint.SeekTypes(segment.TypeSelectStatement),
		Rationale:   "GROUP BY already produces unique rows, so DISTINCT only obscures intent.",
		BadExample:  "SELECT DISTINCT a FROM t GROUP BY a",
		GoodExample: "SELECT a FROM t GROUP BY a",
	})}
}

// LoadFromConfig implements lint.Rule.
func (r DistinctWithGroupBy) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r DistinctWithGroupBy) Eval(ctx *lint.RuleContext) []lint.LintResult {
	if _, ok := ctx.Segment.Child(segment.TypeGroupByClause); !ok {
		return nil
	}
	clause, ok := ctx.Segment.Child(segment.TypeSelectClause)
	if !ok {
		return nil
	}
	modifier, ok := clause.Child(segment.TypeSelectClauseModifier)
	if !ok {
		return nil
	}
	if kw, ok := modifier.FirstLeaf(); !ok || kw.RawUpper() != "DISTINCT" {
		return nil
	}
	return []lint.LintResult{{Anchor: modifier}}
}
