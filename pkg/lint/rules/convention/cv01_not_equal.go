package convention

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewNotEqual())
}

// Not-equal styles accepted by the preferred_not_equal option.
const (
	NotEqualConsistent = "consistent"
	NotEqualANSI       = "ansi"
	NotEqualCStyle     = "c_style"
)

// NotEqual enforces one spelling of the not-equal operator. The consistent
// style follows whichever spelling appears first in the file.
type NotEqual struct {
	lint.BaseRule
	preferred string
}

// NewNotEqual returns the CV01 rule in consistent mode.
func NewNotEqual() NotEqual {
	return NotEqual{
		BaseRule: lint.NewBaseRule(lint.RuleDef{
			ID:          "CV01",
			Name:        "convention.not_equal",
			Group:       "convention",
			Description: "Consistent usage of '!=' or '<>' for \"not equal to\" operator.",
			Severity:    lint.SeverityHint,
			ConfigKeys:  []string{"preferred_not_equal"},
			Crawler:     lint.SeekTypes(segment.TypeRawComparisonOperator),
			Fixable:     true,
			BadExample:  "SELECT * FROM t WHERE a <> b AND c != d",
			GoodExample: "SELECT * FROM t WHERE a <> b AND c <> d",
		}),
		preferred: NotEqualConsistent,
	}
}

// LoadFromConfig implements lint.Rule.
func (r NotEqual) LoadFromConfig(opts map[string]any) (lint.Rule, error) {
	o := struct {
		Preferred string `mapstructure:"preferred_not_equal"`
	}{Preferred: r.preferred}
	if err := lint.DecodeOptions(r.ID(), opts, &o); err != nil {
		return nil, err
	}
	switch o.Preferred {
	case NotEqualConsistent, NotEqualANSI, NotEqualCStyle:
	default:
		return nil, &lint.ConfigError{
			RuleID:  r.ID(),
			Key:     "preferred_not_equal",
			Message: fmt.Sprintf("%q is not one of consistent, ansi, c_style", o.Preferred),
		}
	}
	r.preferred = o.Preferred
	return r, nil
}

// Eval implements lint.Rule.
func (r NotEqual) Eval(ctx *lint.RuleContext) []lint.LintResult {
	raw := ctx.Segment.Raw()
	if !isNotEqual(ctx.Segment) {
		return nil
	}

	want := "<>"
	switch r.preferred {
	case NotEqualCStyle:
		want = "!="
	case NotEqualConsistent:
		first, ok := ctx.Root().RecursiveCrawl(false, segment.TypeRawComparisonOperator).FindFirst(isNotEqual)
		if !ok {
			return nil
		}
		want = first.Raw()
	}
	if raw == want {
		return nil
	}
	return []lint.LintResult{{
		Anchor:  ctx.Segment,
		Message: fmt.Sprintf("Use '%s' instead of '%s'.", want, raw),
		Fixes:   []lint.LintFix{lint.Replace(ctx.Segment, segment.Symbol(segment.TypeRawComparisonOperator, want))},
	}}
}

func isNotEqual(s *segment.Segment) bool {
	return s.Raw() == "<>" || s.Raw() == "!="
}
