// Package structure provides lint rules for SQL query structure.
// These rules follow SQLFluff's ST (Structure) rule category.
//
// Rules in this package:
//   - ST08: Redundant brackets after DISTINCT (fixable)
package structure
