package references

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NewQualifyColumns())
}

// QualifyColumns recommends qualifying column references in multi-table queries.
type QualifyColumns struct{ lint.BaseRule }

// NewQualifyColumns returns the RF02 rule.
func NewQualifyColumns() QualifyColumns {
	return QualifyColumns{lint.NewBaseRule(lint.RuleDef{
		ID:          "RF02",
		Name:        "references.qualification",
		Group:       "references",
		Description: "Qualify column references in queries with multiple tables.",
		Severity:    lint.SeverityWarning,
		Crawler:     lint.SeekTypes(segment.TypeSelectStatement),
		BadExample:  "SELECT id FROM a JOIN b ON a.id = b.a_id",
		GoodExample: "SELECT a.id FROM a JOIN b ON a.id = b.a_id",
	})}
}

// LoadFromConfig implements lint.Rule.
func (r QualifyColumns) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }

// Eval implements lint.Rule.
func (r QualifyColumns) Eval(ctx *lint.RuleContext) []lint.LintResult {
	if tableCount(ctx.Segment) < 2 {
		return nil
	}
	var results []lint.LintResult
	for _, ref := range selectColumns(ctx.Segment) {
		if isQualified(ref) {
			continue
		}
		results = append(results, lint.LintResult{
			Anchor:  ref,
			Message: fmt.Sprintf("Column '%s' should be qualified with table name in multi-table query.", ref.Raw()),
		})
	}
	return results
}
