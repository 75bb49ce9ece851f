package references

import "github.com/leapstack-labs/leaplint/pkg/segment"

// selectColumns returns the column references of a select clause, leaving
// out those of nested queries.
func selectColumns(stmt *segment.Segment) segment.Segments {
	clause, ok := stmt.Child(segment.TypeSelectClause)
	if !ok {
		return nil
	}
	var refs segment.Segments
	clause.Walk(func(s *segment.Segment) bool {
		switch {
		case s.IsType(segment.TypeSelectStatement, segment.TypeSetExpression, segment.TypeWithClause):
			return false
		case s.IsType(segment.TypeColumnReference):
			refs = append(refs, s)
			return false
		}
		return true
	})
	return refs
}

// isQualified reports whether a column reference carries a table prefix.
func isQualified(ref *segment.Segment) bool {
	return len(ref.ChildrenOfType(segment.TypeIdentifier)) > 1
}

// tableCount counts the table expressions of the statement's FROM clause.
func tableCount(stmt *segment.Segment) int {
	from, ok := stmt.Child(segment.TypeFromClause)
	if !ok {
		return 0
	}
	return len(from.RecursiveCrawl(false, segment.TypeFromExpressionElem))
}
