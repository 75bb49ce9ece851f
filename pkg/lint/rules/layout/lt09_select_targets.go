package layout

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewSelectTargets())
}

// Wildcard policies for LT09.
const (
	// WildcardSingle treats a lone wildcard like any single target.
	WildcardSingle = "single"
	// WildcardMultiple lays a lone wildcard out like multiple targets.
	WildcardMultiple = "multiple"
)

// indentUnit is added to the SELECT keyword's column for targets on their
// own line.
const indentUnit = "    "

// SelectTargets puts a single select target on the SELECT line and multiple
// targets on lines of their own.
type SelectTargets struct {
	lint.BaseRule
	wildcardPolicy string
}

// NewSelectTargets returns the LT09 rule.
func NewSelectTargets() SelectTargets {
	return SelectTargets{
		BaseRule: lint.NewBaseRule(lint.RuleDef{
			ID:          "LT09",
			Name:        "layout.select_targets",
			Group:       "layout",
			Description: "Select targets should be on a new line unless there is only one select target.",
			Severity:    lint.SeverityInfo,
			ConfigKeys:  []string{"wildcard_policy"},
			Crawler:     lint.SeekTypes(segment.TypeSelectClause),
			Fixable:     true,
			BadExample:  "SELECT a, b FROM t",
			GoodExample: "SELECT\n    a,\n    b\nFROM t",
		}),
		wildcardPolicy: WildcardSingle,
	}
}

// LoadFromConfig implements lint.Rule.
func (r SelectTargets) LoadFromConfig(opts map[string]any) (lint.Rule, error) {
	o := struct {
		WildcardPolicy string `mapstructure:"wildcard_policy"`
	}{WildcardPolicy: r.wildcardPolicy}
	if err := lint.DecodeOptions(r.ID(), opts, &o); err != nil {
		return nil, err
	}
	if o.WildcardPolicy != WildcardSingle && o.WildcardPolicy != WildcardMultiple {
		return nil, &lint.ConfigError{
			RuleID:  r.ID(),
			Key:     "wildcard_policy",
			Message: fmt.Sprintf("%q is not one of single, multiple", o.WildcardPolicy),
		}
	}
	r.wildcardPolicy = o.WildcardPolicy
	return r, nil
}

// Eval implements lint.Rule.
func (r SelectTargets) Eval(ctx *lint.RuleContext) []lint.LintResult {
	children := ctx.Segment.Children()
	targets := children.Filter(segment.IsType(segment.TypeSelectClauseElement))
	if len(targets) == 0 {
		return nil
	}

	// The targets start after SELECT and its modifier.
	base := children[0]
	if modifier, ok := ctx.Segment.Child(segment.TypeSelectClauseModifier); ok {
		base = modifier
	}

	hasWildcard := len(targets.Children(segment.IsType(segment.TypeWildcardExpression))) > 0
	if len(targets) == 1 && (!hasWildcard || r.wildcardPolicy == WildcardSingle) {
		return r.single(ctx, children, base, targets[0])
	}
	return r.multiple(ctx, children, base, targets)
}

// single joins a lone target onto the SELECT line.
func (r SelectTargets) single(ctx *lint.RuleContext, children segment.Segments, base, target *segment.Segment) []lint.LintResult {
	gap := children.Select(nil, nil, base, target)
	if !gap.Any(segment.IsNewline) || gap.Any(segment.IsComment) {
		return nil
	}

	var fixes []lint.LintFix
	for i, ws := range gap.Filter(segment.IsWhitespace) {
		if i == 0 {
			fixes = append(fixes, lint.Replace(ws, segment.Whitespace(" ")))
			continue
		}
		fixes = append(fixes, lint.Delete(ws))
	}
	return []lint.LintResult{{Anchor: ctx.Segment, Fixes: fixes}}
}

// multiple moves every target sharing a line with the previous target, or
// with SELECT, onto a new line, and FROM after the last target.
func (r SelectTargets) multiple(ctx *lint.RuleContext, children segment.Segments, base *segment.Segment, targets segment.Segments) []lint.LintResult {
	selectPos, ok := ctx.Tree.Position(children[0])
	if !ok {
		return nil
	}
	outer := strings.Repeat(" ", selectPos.Working.Column-1)

	var fixes []lint.LintFix
	prev := base
	for _, target := range targets {
		if r.sameLine(ctx, prev, target) {
			fixes = append(fixes, breakBefore(children, target, outer+indentUnit)...)
		}
		prev = target
	}

	if from, ok := ctx.SiblingsPost.FindFirst(segment.IsCode); ok && from.IsType(segment.TypeFromClause) {
		if r.sameLine(ctx, prev, from) {
			fixes = append(fixes, breakBefore(ctx.SiblingsPost, from, outer)...)
		}
	}
	if len(fixes) == 0 {
		return nil
	}
	return []lint.LintResult{{Anchor: ctx.Segment, Fixes: fixes}}
}

// sameLine reports whether b starts on the line where a ends.
func (r SelectTargets) sameLine(ctx *lint.RuleContext, a, b *segment.Segment) bool {
	pa, okA := ctx.Tree.Position(a)
	pb, okB := ctx.Tree.Position(b)
	return okA && okB && pa.WorkingEnd.Line == pb.Working.Line
}

// breakBefore returns the fixes that start seg on a new line with the given
// indent. The whitespace directly before seg is reused when there is any.
// Nothing is done when a comment sits right before seg.
func breakBefore(siblings segment.Segments, seg *segment.Segment, indent string) []lint.LintFix {
	idx, err := siblings.Find(seg)
	if err != nil {
		return nil
	}
	var ws segment.Segments
	for i := idx - 1; i >= 0; i-- {
		s := siblings[i]
		if s.IsMeta() {
			continue
		}
		if !s.IsWhitespace() {
			if s.IsComment() {
				return nil
			}
			break
		}
		ws = append(ws, s)
	}

	replacement := []*segment.Segment{segment.Newline()}
	if indent != "" {
		replacement = append(replacement, segment.Whitespace(indent))
	}
	if len(ws) == 0 {
		return []lint.LintFix{lint.CreateBefore(seg, replacement...)}
	}
	ws = ws.Reversed()
	fixes := []lint.LintFix{lint.Replace(ws[0], replacement...)}
	for _, extra := range ws[1:] {
		fixes = append(fixes, lint.Delete(extra))
	}
	return fixes
}
