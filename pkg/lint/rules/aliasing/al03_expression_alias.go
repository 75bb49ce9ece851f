package aliasing

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewExpressionAlias())
}

// ExpressionAlias recommends adding aliases to expression columns.
type ExpressionAlias struct {
	lint.BaseRule
	allowScalar bool
}

// NewExpressionAlias returns the AL03 rule. Lone literals are allowed
// without an alias by default.
func NewExpressionAlias() ExpressionAlias {
	return ExpressionAlias{
		BaseRule: lint.NewBaseRule(lint.RuleDef{
			ID:          "AL03",
			Name:        "aliasing.expression",
			Group:       "aliasing",
			Description: "Column expression without alias. Use explicit `AS` clause.",
			Severity:    lint.SeverityInfo,
			ConfigKeys:  []string{"allow_scalar"},
			Crawler:     lint.SeekTypes(segment.TypeSelectClauseElement),
			Rationale:   "Unaliased expressions get engine-specific column names that downstream consumers cannot rely on.",
			BadExample:  "SELECT COUNT(*) FROM orders",
			GoodExample: "SELECT COUNT(*) AS order_count FROM orders",
		}),
		allowScalar: true,
	}
}

// LoadFromConfig implements lint.Rule.
func (r ExpressionAlias) LoadFromConfig(opts map[string]any) (lint.Rule, error) {
	o := struct {
		AllowScalar bool `mapstructure:"allow_scalar"`
	}{AllowScalar: r.allowScalar}
	if err := lint.DecodeOptions(r.ID(), opts, &o); err != nil {
		return nil, err
	}
	r.allowScalar = o.AllowScalar
	return r, nil
}

// Eval implements lint.Rule.
func (r ExpressionAlias) Eval(ctx *lint.RuleContext) []lint.LintResult {
	if _, ok := ctx.Segment.Child(segment.TypeAliasExpression); ok {
		return nil
	}
	expr, ok := ctx.Segment.Children().FindFirst(segment.IsCode)
	if !ok {
		return nil
	}
	switch {
	case expr.IsType(segment.TypeColumnReference, segment.TypeWildcardExpression):
		return nil
	case expr.IsType(segment.TypeLiteral) && r.allowScalar:
		return nil
	}
	return []lint.LintResult{{Anchor: expr}}
}
