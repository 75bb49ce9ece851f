// Package convention provides lint rules for SQL coding conventions.
// These rules follow SQLFluff's CV (Convention) rule category.
//
// Rules in this package:
//   - CV01: Consistent not-equal operator (fixable)
//   - CV02: Prefer COALESCE over IFNULL/NVL (fixable)
//   - CV04: Prefer COUNT(*) over COUNT(1) (fixable)
//   - CV05: Comparisons with NULL use IS / IS NOT (fixable)
//   - CV08: Prefer LEFT JOIN over RIGHT JOIN
//   - CV09: Blocked words
package convention
