package convention

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewCountRows())
}

// CountRows enforces COUNT(*) over COUNT(1) and COUNT(0).
type CountRows struct{ lint.BaseRule }

// NewCountRows returns the CV04 rule.
func NewCountRows() CountRows {
	return CountRows{lint.NewBaseRule(lint.RuleDef{
		ID:          "CV04",
		Name:        "convention.count_rows",
		Group:       "convention",
		Description: "Use COUNT(*) instead of COUNT(1) or COUNT(0) to express 'count rows'.",
		Severity:    lint.SeverityHint,
		Crawler:     lint.SeekTypes(segment.TypeFunction),
		Fixable:     true,
		BadExample:  "SELECT COUNT(1) FROM t",
		GoodExample: "SELECT COUNT(*) FROM t",
	})}
}

// LoadFromConfig implements lint.Rule.
func (r CountRows) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r CountRows) Eval(ctx *lint.RuleContext) []lint.LintResult {
	name, ok := ctx.Segment.Child(segment.TypeFunctionName)
	if !ok || name.RawUpper() != "COUNT" {
		return nil
	}
	args, ok := ctx.Segment.Child(segment.TypeBracketed)
	if !ok {
		return nil
	}
	code := args.Children().Filter(segment.IsCode)
	if len(code) != 3 {
		return nil
	}
	arg := code[1]
	if !arg.IsType(segment.TypeNumericLiteral) || (arg.Raw() != "1" && arg.Raw() != "0") {
		return nil
	}
	return []lint.LintResult{{
		Anchor: arg,
		Fixes:  []lint.LintFix{lint.Replace(arg, segment.Symbol(segment.TypeStar, "*"))},
	}}
}
