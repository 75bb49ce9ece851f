// Package references provides lint rules for column reference qualification,
// following SQLFluff's RF (References) category.
//
// Rules in this package:
//   - RF02: Qualify column references in multi-table queries
//   - RF03: Use one qualification style per query
//
// refs.go collects the column references and table aliases both rules share.
package references
