// Package layout provides lint rules for the layout of SQL text.
// These rules follow SQLFluff's LT (Layout) rule category.
//
// Rules in this package:
//   - LT09: Select targets on their own lines (fixable)
package layout
