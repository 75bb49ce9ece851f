package aliasing

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewSelfAlias())
}

// SelfAlias removes column aliases that repeat the column name.
type SelfAlias struct{ lint.BaseRule }

// NewSelfAlias returns the AL09 rule.
func NewSelfAlias() SelfAlias {
	return SelfAlias{lint.NewBaseRule(lint.RuleDef{
		ID:          "AL09",
		Name:        "aliasing.self_alias.column",
		Group:       "aliasing",
		Description: "Column should not be self-aliased.",
		Severity:    lint.SeverityWarning,
		Crawler:     lint.SeekTypes(segment.TypeSelectClause),
		Fixable:     true,
		Rationale:   "Aliasing a column to its own name adds noise without changing the result.",
		BadExample:  "SELECT col_a AS col_a FROM foo",
		GoodExample: "SELECT col_a FROM foo",
		Fix:         "Drop the alias.",
	})}
}

// LoadFromConfig implements lint.Rule.
func (r SelfAlias) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r SelfAlias) Eval(ctx *lint.RuleContext) []lint.LintResult {
	var results []lint.LintResult
	for _, elem := range ctx.Segment.ChildrenOfType(segment.TypeSelectClauseElement) {
		column, ok := elem.Child(segment.TypeColumnReference)
		if !ok {
			continue
		}
		alias, ok := elem.Child(segment.TypeAliasExpression)
		if !ok {
			continue
		}
		name, ok := column.ChildrenOfType(segment.TypeIdentifier).Last()
		if !ok {
			continue
		}
		aliasName, ok := alias.Child(segment.TypeIdentifier)
		if !ok || !sameIdentifier(name, aliasName) {
			continue
		}

		between := elem.Children().Select(nil, nil, column, alias)
		var fixes []lint.LintFix
		if !between.Any(segment.IsComment) {
			for _, ws := range between.Filter(segment.IsWhitespace) {
				fixes = append(fixes, lint.Delete(ws))
			}
			fixes = append(fixes, lint.Delete(alias))
		}
		anchor, _ := elem.FirstLeaf()
		results = append(results, lint.LintResult{Anchor: anchor, Fixes: fixes})
	}
	return results
}

// sameIdentifier compares two identifiers the way the database resolves
// them: quoted names exactly, naked names case-insensitively. A quoted and a
// naked identifier never match.
func sameIdentifier(a, b *segment.Segment) bool {
	switch {
	case a.Type() != b.Type():
		return false
	case a.IsType(segment.TypeQuotedIdentifier):
		return a.Raw() == b.Raw()
	default:
		return a.RawUpper() == b.RawUpper()
	}
}
