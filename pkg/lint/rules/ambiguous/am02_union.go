package ambiguous

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewUnionDistinct())
}

// UnionDistinct rewrites a bare UNION to UNION DISTINCT. Only dialects where
// UNION DISTINCT is valid are checked.
type UnionDistinct struct{ lint.BaseRule }

// NewUnionDistinct returns the AM02 rule.
func NewUnionDistinct() UnionDistinct {
	return UnionDistinct{lint.NewBaseRule(lint.RuleDef{
		ID:          "AM02",
		Name:        "ambiguous.union",
		Group:       "ambiguous",
		Description: "Look for UNION keyword not immediately followed by DISTINCT or ALL.",
		Severity:    lint.SeverityWarning,
		Dialects:    []string{"ansi", "hive", "mysql", "redshift"},
		Crawler:     lint.SeekTypes(segment.TypeSetOperator),
		Fixable:     true,
		Rationale:   "A bare UNION silently removes duplicates; spelling out DISTINCT makes that visible.",
		BadExample:  "SELECT a FROM x UNION SELECT a FROM y",
		GoodExample: "SELECT a FROM x UNION DISTINCT SELECT a FROM y",
		Fix:         "Add DISTINCT, or use UNION ALL if duplicates are acceptable.",
	})}
}

// LoadFromConfig implements lint.Rule.
func (r UnionDistinct) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r UnionDistinct) Eval(ctx *lint.RuleContext) []lint.LintResult {
	keywords := ctx.Segment.ChildrenOfType(segment.TypeKeyword)
	union, ok := keywords.First()
	if !ok || union.RawUpper() != "UNION" || len(keywords) > 1 {
		return nil
	}

	distinct := "DISTINCT"
	if union.Raw() == strings.ToLower(union.Raw()) {
		distinct = "distinct"
	}
	fix := lint.Replace(union,
		segment.Keyword(union.Raw()),
		segment.Whitespace(" "),
		segment.Keyword(distinct),
	)
	return []lint.LintResult{{Anchor: ctx.Segment, Fixes: []lint.LintFix{fix}}}
}
