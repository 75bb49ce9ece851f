// Package rules provides SQLFluff-style lint rule implementations for leaplint.
//
// Rules are organized by category following SQLFluff's naming conventions:
//   - aliasing: Rules about table and column aliasing (AL03, AL06, AL09)
//   - ambiguous: Rules detecting ambiguous SQL constructs (AM01, AM02)
//   - convention: Rules about SQL conventions (CV01-CV09)
//   - layout: Rules about line breaks and spacing (LT09)
//   - references: Rules about column qualification (RF02, RF03)
//   - structure: Rules about query structure and style (ST08)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
//
// Individual rule categories can also be imported:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules/ambiguous"
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules/structure"
package rules
