package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

func init() {
	lint.Register(NewPreferCoalesce())
}

// PreferCoalesce recommends COALESCE over IFNULL/NVL.
type PreferCoalesce struct{ lint.BaseRule }

// NewPreferCoalesce returns the CV02 rule.
func NewPreferCoalesce() PreferCoalesce {
	return PreferCoalesce{lint.NewBaseRule(lint.RuleDef{
		ID:          "CV02",
		Name:        "convention.coalesce",
		Group:       "convention",
		Description: "Prefer COALESCE over IFNULL/NVL for better portability.",
		Severity:    lint.SeverityHint,
		Crawler:     lint.SeekTypes(segment.TypeFunctionName),
		Fixable:     true,
	})}
}

// LoadFromConfig implements lint.Rule.
func (r PreferCoalesce) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r PreferCoalesce) Eval(ctx *lint.RuleContext) []lint.LintResult {
	if ctx.Segment.NumChildren() != 1 {
		return nil
	}
	name, ok := ctx.Segment.Child(segment.TypeNakedIdentifier)
	if !ok {
		return nil
	}
	upper := name.RawUpper()
	if upper != "IFNULL" && upper != "NVL" {
		return nil
	}

	replacement := "COALESCE"
	if name.Raw() == strings.ToLower(name.Raw()) {
		replacement = "coalesce"
	}
	leaf := segment.NewLeaf(segment.TypeNakedIdentifier, replacement, token.Position{}, segment.TypeIdentifier)
	return []lint.LintResult{{
		Anchor:  name,
		Message: fmt.Sprintf("Use 'COALESCE' instead of '%s'.", upper),
		Fixes:   []lint.LintFix{lint.Replace(name, leaf)},
	}}
}
