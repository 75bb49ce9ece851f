package convention

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/reflow"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewIsNull())
}

// IsNull rewrites = NULL and <> NULL comparisons to IS NULL and IS NOT NULL.
type IsNull struct{ lint.BaseRule }

// NewIsNull returns the CV05 rule.
func NewIsNull() IsNull {
	return IsNull{lint.NewBaseRule(lint.RuleDef{
		ID:          "CV05",
		Name:        "convention.is_null",
		Group:       "convention",
		Description: "Comparisons with NULL should use \"IS\" or \"IS NOT\".",
		Severity:    lint.SeverityWarning,
		Crawler:     lint.SeekTypes(segment.TypeComparisonOperator),
		Fixable:     true,
		Rationale:   "a = NULL is never true; NULL has to be tested with IS NULL.",
		BadExample:  "SELECT a FROM t WHERE a = NULL",
		GoodExample: "SELECT a FROM t WHERE a IS NULL",
	})}
}

// Parents and grandparents where = is an assignment, not a comparison.
var (
	assignmentParents = map[string]bool{
		segment.TypeSetClause:          true,
		segment.TypeSetClauseList:      true,
		"execute_script_statement":     true,
		"assignment_operator":          true,
		"exclusion_constraint_element": true,
	}
	assignmentGrandparents = map[string]bool{
		segment.TypeSetClauseList:  true,
		"execute_script_statement": true,
		"options_segment":          true,
	}
)

// LoadFromConfig implements lint.Rule.
func (r IsNull) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r IsNull) Eval(ctx *lint.RuleContext) []lint.LintResult {
	op := ctx.Segment.Raw()
	if op != "=" && op != "!=" && op != "<>" {
		return nil
	}
	next, ok := ctx.SiblingsPost.FindFirst(segment.IsCode)
	if !ok || !next.IsType(segment.TypeNullLiteral) {
		return nil
	}
	if parent, ok := ctx.Parent(); ok && assignmentParents[parent.Type()] {
		return nil
	}
	if grandparent, ok := ctx.Ancestor(2); ok && assignmentGrandparents[grandparent.Type()] {
		return nil
	}
	if op == "=" && isTSQLColumnAssignment(ctx) {
		return nil
	}

	is, not := "IS", "NOT"
	if next.Raw()[0] != 'N' {
		is, not = "is", "not"
	}
	edits := []*segment.Segment{segment.Keyword(is)}
	if op != "=" {
		edits = append(edits, segment.Whitespace(" "), segment.Keyword(not))
	}

	result := lint.LintResult{Anchor: ctx.Segment}
	fixes, err := reflow.FromAroundTarget(ctx.Segment, ctx.Tree, reflow.ScopeBoth, ctx.Layout).
		Replace(ctx.Segment, edits...).
		Respace(false, reflow.FilterAll).
		Fixes()
	if err == nil {
		result.Fixes = fixes
	}
	return []lint.LintResult{result}
}

// isTSQLColumnAssignment reports whether the operator is T-SQL's
// "SELECT alias = expr" column alias form.
func isTSQLColumnAssignment(ctx *lint.RuleContext) bool {
	if ctx.DialectName() != "tsql" {
		return false
	}
	expr, ok := ctx.Parent()
	if !ok || !expr.IsType(segment.TypeExpression) {
		return false
	}
	elem, ok := ctx.Ancestor(2)
	if !ok || !elem.IsType(segment.TypeSelectClauseElement) {
		return false
	}
	before := ctx.SiblingsPre.Filter(segment.IsCode)
	return len(before) == 1 && before[0].IsType(segment.TypeColumnReference)
}
