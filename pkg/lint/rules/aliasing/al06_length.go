package aliasing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewAliasLength())
}

// AliasLength enforces table alias length constraints. Both bounds are off
// unless configured.
type AliasLength struct {
	lint.BaseRule
	minLength int
	maxLength int
}

// NewAliasLength returns the AL06 rule with no bounds.
func NewAliasLength() AliasLength {
	return AliasLength{BaseRule: lint.NewBaseRule(lint.RuleDef{
		ID:          "AL06",
		Name:        "aliasing.length",
		Group:       "aliasing",
		Description: "Table alias length should be between min and max characters.",
		Severity:    lint.SeverityInfo,
		ConfigKeys:  []string{"min_alias_length", "max_alias_length"},
		Crawler:     lint.SeekTypes(segment.TypeFromExpressionElem),
		Rationale:   "Very short aliases are cryptic and very long ones defeat the purpose of aliasing.",
		BadExample:  "SELECT u.id FROM users AS u",
		GoodExample: "SELECT usr.id FROM users AS usr",
	})}
}

type aliasLengthOptions struct {
	MinAliasLength int `mapstructure:"min_alias_length"`
	MaxAliasLength int `mapstructure:"max_alias_length"`
}

// LoadFromConfig implements lint.Rule.
func (r AliasLength) LoadFromConfig(opts map[string]any) (lint.Rule, error) {
	o := aliasLengthOptions{MinAliasLength: r.minLength, MaxAliasLength: r.maxLength}
	if err := lint.DecodeOptions(r.ID(), opts, &o); err != nil {
		return nil, err
	}
	switch {
	case o.MinAliasLength < 0:
		return nil, &lint.ConfigError{RuleID: r.ID(), Key: "min_alias_length", Message: "must not be negative"}
	case o.MaxAliasLength < 0:
		return nil, &lint.ConfigError{RuleID: r.ID(), Key: "max_alias_length", Message: "must not be negative"}
	case o.MaxAliasLength > 0 && o.MinAliasLength > o.MaxAliasLength:
		return nil, &lint.ConfigError{
			RuleID:  r.ID(),
			Key:     "min_alias_length",
			Message: fmt.Sprintf("%d exceeds max_alias_length %d", o.MinAliasLength, o.MaxAliasLength),
		}
	}
	r.minLength, r.maxLength = o.MinAliasLength, o.MaxAliasLength
	return r, nil
}

// Eval implements lint.Rule.
func (r AliasLength) Eval(ctx *lint.RuleContext) []lint.LintResult {
	if r.minLength == 0 && r.maxLength == 0 {
		return nil
	}
	table, ok := ctx.Segment.Child(segment.TypeTableExpression)
	if !ok {
		return nil
	}
	if _, ok := table.Child(segment.TypeObjectReference); !ok {
		return nil
	}
	alias, ok := ctx.Segment.Child(segment.TypeAliasExpression)
	if !ok {
		return nil
	}
	ident, ok := alias.Child(segment.TypeIdentifier)
	if !ok {
		return nil
	}

	n := utf8.RuneCountInString(identifierName(ident))
	switch {
	case r.minLength > 0 && n < r.minLength:
		return []lint.LintResult{{
			Anchor:  ident,
			Message: fmt.Sprintf("Aliases should be at least %d character(s) long.", r.minLength),
		}}
	case r.maxLength > 0 && n > r.maxLength:
		return []lint.LintResult{{
			Anchor:  ident,
			Message: fmt.Sprintf("Aliases should be no more than %d character(s) long.", r.maxLength),
		}}
	}
	return nil
}

// identifierName strips the quotes of a quoted identifier.
func identifierName(ident *segment.Segment) string {
	raw := ident.Raw()
	if ident.IsType(segment.TypeQuotedIdentifier) && len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return strings.TrimSpace(raw)
}
