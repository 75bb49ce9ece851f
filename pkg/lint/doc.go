// Package lint provides the rule engine: rule contracts, crawlers, the fix
// model and the fixed-point fix loop.
//
// # Architecture
//
// Linting works on immutable segment trees (pkg/segment):
//
//  1. The source is parsed into a lossless tree.
//  2. Every rule's crawler selects the segments it is evaluated on, and a
//     fresh RuleContext is assembled for each (ancestors, siblings, dialect).
//  3. Rules return LintResults, optionally carrying LintFixes anchored on
//     segments of the tree.
//  4. In fix mode, non-conflicting fix groups are applied, producing a new
//     tree that shares every unedited subtree with the old one, and the
//     rules run again until nothing is left to fix or MaxLoops is reached.
//
// # Rule Registration
//
// Rules register themselves via init() functions when their package is
// imported:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
//
// The registry is a catalog only. A Linter runs the explicit list of rules
// it is given:
//
//	set, err := lint.SelectRules("aliasing", "CV05")
//	linter, err := lint.NewLinter(set.Rules(), lint.WithDialect("postgres"))
//	report, err := linter.Lint("SELECT a AS a FROM t")
//
// # Rule Categories
//
//   - AL (Aliasing): Rules about alias usage and naming
//   - AM (Ambiguous): Rules about ambiguous SQL constructs
//   - CV (Convention): Rules about SQL coding conventions
//   - LT (Layout): Rules about whitespace and line breaks
//   - ST (Structure): Rules about SQL query structure
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("AM01")
//	config.SetSeverity("CV05", core.SeverityError)
//	config.SetRuleOptions("AL06", map[string]any{"max_alias_length": 10})
//
// # Creating Custom Rules
//
// Embed BaseRule and implement LoadFromConfig and Eval:
//
//	type myRule struct{ lint.BaseRule }
//
//	func (r myRule) LoadFromConfig(map[string]any) (lint.Rule, error) { return r, nil }
//
//	func (r myRule) Eval(ctx *lint.RuleContext) []lint.LintResult {
//		return nil
//	}
//
//	func init() {
//		lint.Register(myRule{lint.NewBaseRule(lint.RuleDef{
//			ID:          "MY01",
//			Name:        "custom.my_rule",
//			Group:       "custom",
//			Description: "My custom rule description",
//			Severity:    core.SeverityWarning,
//			Crawler:     lint.SeekTypes("select_clause"),
//		})})
//	}
package lint
