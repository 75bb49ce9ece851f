package structure

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/reflow"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewDistinctBrackets())
}

// DistinctBrackets removes brackets that make DISTINCT look like a function
// call, in select clauses and inside function arguments.
type DistinctBrackets struct{ lint.BaseRule }

// NewDistinctBrackets returns the ST08 rule.
func NewDistinctBrackets() DistinctBrackets {
	return DistinctBrackets{lint.NewBaseRule(lint.RuleDef{
		ID:          "ST08",
		Name:        "structure.distinct",
		Group:       "structure",
		Description: "DISTINCT used with parentheses.",
		Severity:    lint.SeverityWarning,
		Crawler:     lint.SeekTypes(segment.TypeSelectClause, segment.TypeFunction),
		Fixable:     true,
		Rationale:   "DISTINCT applies to the whole row, not to the bracketed expression after it.",
		BadExample:  "SELECT DISTINCT(a), b FROM t",
		GoodExample: "SELECT DISTINCT a, b FROM t",
	})}
}

// LoadFromConfig implements lint.Rule.
func (r DistinctBrackets) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r DistinctBrackets) Eval(ctx *lint.RuleContext) []lint.LintResult {
	if ctx.Segment.IsType(segment.TypeFunction) {
		return r.evalFunction(ctx)
	}
	return r.evalSelectClause(ctx)
}

func (r DistinctBrackets) evalSelectClause(ctx *lint.RuleContext) []lint.LintResult {
	modifier, ok := ctx.Segment.Child(segment.TypeSelectClauseModifier)
	if !ok {
		return nil
	}
	code := modifier.Children().Filter(segment.IsCode)
	if len(code) != 1 || code[0].RawUpper() != "DISTINCT" {
		// DISTINCT ON (...) and ALL
		return nil
	}

	if elem, ok := ctx.Segment.Child(segment.TypeSelectClauseElement); ok {
		if first, ok := elem.Children().FindFirst(segment.IsCode); ok && isUnwrappable(first) {
			return unwrap(ctx, first)
		}
	}

	fixes, err := reflow.FromAroundTarget(modifier, ctx.Tree, reflow.ScopeAfter, ctx.Layout).
		Respace(false, reflow.FilterAll).
		Fixes()
	if err != nil || len(fixes) == 0 {
		return nil
	}
	return []lint.LintResult{{Anchor: modifier, Fixes: fixes}}
}

// evalFunction handles COUNT(DISTINCT(x)).
func (r DistinctBrackets) evalFunction(ctx *lint.RuleContext) []lint.LintResult {
	args, ok := ctx.Segment.Child(segment.TypeBracketed)
	if !ok {
		return nil
	}
	code := args.Children().Filter(segment.IsCode)
	// ( DISTINCT (x) )
	if len(code) != 4 || code[1].RawUpper() != "DISTINCT" || !isUnwrappable(code[2]) {
		return nil
	}
	return unwrap(ctx, code[2])
}

// isUnwrappable reports whether b is a bracketed single expression.
func isUnwrappable(b *segment.Segment) bool {
	if !b.IsType(segment.TypeBracketed) {
		return false
	}
	inner := b.Children().Filter(segment.IsCode)
	if len(inner) != 3 {
		return false
	}
	return !inner[1].IsType(segment.TypeSelectStatement, segment.TypeSetExpression, segment.TypeWithClause)
}

// unwrap replaces the bracketed segment by its content and fixes the
// spacing on both sides of it.
func unwrap(ctx *lint.RuleContext, bracketed *segment.Segment) []lint.LintResult {
	content := reflow.FilterMeta(bracketed.Children())
	content = content[1 : len(content)-1]
	for len(content) > 0 && content[0].IsWhitespace() {
		content = content[1:]
	}
	for len(content) > 0 && content[len(content)-1].IsWhitespace() {
		content = content[:len(content)-1]
	}

	result := lint.LintResult{Anchor: bracketed}
	fixes, err := reflow.FromAroundTarget(bracketed, ctx.Tree, reflow.ScopeBoth, ctx.Layout).
		Replace(bracketed, content...).
		Respace(false, reflow.FilterAll).
		Fixes()
	if err == nil {
		result.Fixes = fixes
	}
	return []lint.LintResult{result}
}
