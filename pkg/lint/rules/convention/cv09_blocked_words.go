package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewBlockedWords())
}

// Default blocked words.
var defaultBlockedWords = []string{"DELETE", "DROP", "TRUNCATE"}

// BlockedWords warns about keywords and identifiers on a block list.
type BlockedWords struct {
	lint.BaseRule
	words map[string]bool
}

// NewBlockedWords returns the CV09 rule with the default block list.
func NewBlockedWords() BlockedWords {
	r := BlockedWords{BaseRule: lint.NewBaseRule(lint.RuleDef{
		ID:          "CV09",
		Name:        "convention.blocked_words",
		Group:       "convention",
		Description: "Block dangerous SQL keywords like DELETE, DROP, TRUNCATE.",
		Severity:    lint.SeverityWarning,
		ConfigKeys:  []string{"blocked_words"},
		Crawler:     lint.SeekTypes(segment.TypeKeyword, segment.TypeNakedIdentifier),
	})}
	r.words = wordSet(defaultBlockedWords)
	return r
}

// LoadFromConfig implements lint.Rule.
func (r BlockedWords) LoadFromConfig(opts map[string]any) (lint.Rule, error) {
	var o struct {
		BlockedWords []string `mapstructure:"blocked_words"`
	}
	if err := lint.DecodeOptions(r.ID(), opts, &o); err != nil {
		return nil, err
	}
	if o.BlockedWords != nil {
		r.words = wordSet(o.BlockedWords)
	}
	return r, nil
}

// Eval implements lint.Rule.
func (r BlockedWords) Eval(ctx *lint.RuleContext) []lint.LintResult {
	word := ctx.Segment.RawUpper()
	if !r.words[word] {
		return nil
	}
	return []lint.LintResult{{
		Anchor:  ctx.Segment,
		Message: fmt.Sprintf("Use of blocked word '%s'.", word),
	}}
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			set[strings.ToUpper(w)] = true
		}
	}
	return set
}
