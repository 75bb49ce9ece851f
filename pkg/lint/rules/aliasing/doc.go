// Package aliasing provides lint rules for SQL aliasing conventions.
// These rules follow SQLFluff's AL (Aliasing) rule category.
//
// Rules in this package:
//   - AL03: Expression columns should have aliases
//   - AL06: Table alias length constraints
//   - AL09: Column aliased to its own name (fixable)
package aliasing
