// Package ambiguous provides lint rules for detecting ambiguous SQL constructs.
// These rules follow SQLFluff's AM (Ambiguous) rule category.
//
// Rules in this package:
//   - AM01: DISTINCT used with GROUP BY (redundant)
//   - AM02: UNION vs UNION DISTINCT ambiguity (fixable)
package ambiguous
