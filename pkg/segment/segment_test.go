package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// buildSelect builds "SELECT a ,b\nFROM t" by hand.
func buildSelect() (root, sel, a, comma, b, from *Segment) {
	pos := token.Position{Line: 1, Column: 1, Offset: 0}
	sel = NewLeaf(TypeKeyword, "SELECT", pos)
	ws := NewLeaf(TypeWhitespace, " ", pos.Advance("SELECT"))
	a = NewNode(TypeColumnReference, []*Segment{NewLeaf(TypeNakedIdentifier, "a", pos.Advance("SELECT "), TypeIdentifier)})
	ws2 := NewLeaf(TypeWhitespace, " ", pos.Advance("SELECT a"))
	comma = NewLeaf(TypeComma, ",", pos.Advance("SELECT a "), TypeSymbol)
	b = NewNode(TypeColumnReference, []*Segment{NewLeaf(TypeNakedIdentifier, "b", pos.Advance("SELECT a ,"), TypeIdentifier)})
	clause := NewNode(TypeSelectClause, []*Segment{sel, Indent(token.Position{}), ws, a, ws2, comma, b, Dedent(token.Position{})})
	nl := NewLeaf(TypeNewline, "\n", pos.Advance("SELECT a ,b"))
	from = NewNode(TypeFromClause, []*Segment{
		NewLeaf(TypeKeyword, "FROM", pos.Advance("SELECT a ,b\n")),
		NewLeaf(TypeWhitespace, " ", pos.Advance("SELECT a ,b\nFROM")),
		NewNode(TypeTableReference, []*Segment{NewLeaf(TypeNakedIdentifier, "t", pos.Advance("SELECT a ,b\nFROM "))}),
	})
	root = NewNode(TypeFile, []*Segment{NewNode(TypeSelectStatement, []*Segment{clause, nl, from})})
	return root, sel, a, comma, b, from
}

func TestSegmentRawIsLossless(t *testing.T) {
	root, _, _, _, _, _ := buildSelect()
	assert.Equal(t, "SELECT a ,b\nFROM t", root.Raw())
	assert.Equal(t, root.Raw(), root.RawSegments().Raw())
}

func TestSegmentTraits(t *testing.T) {
	root, sel, a, comma, _, _ := buildSelect()

	assert.True(t, sel.IsCode())
	assert.True(t, sel.IsLeaf())
	assert.False(t, a.IsLeaf())
	assert.True(t, a.IsCode())
	assert.True(t, comma.IsType(TypeSymbol))
	assert.Equal(t, TypeComma, comma.Type())

	ws := Whitespace("  ")
	assert.True(t, ws.IsWhitespace())
	assert.False(t, ws.IsCode())
	assert.False(t, ws.IsMeta())

	ind := Indent(token.Position{})
	assert.True(t, ind.IsMeta())
	assert.Empty(t, ind.Raw())

	c := NewLeaf(TypeInlineComment, "-- hi", token.Position{}, TypeComment)
	assert.True(t, c.IsComment())
	assert.False(t, c.IsCode())

	clause, ok := root.RecursiveCrawl(true, TypeSelectClause).First()
	require.True(t, ok)
	refs := clause.ChildrenOfType(TypeColumnReference)
	assert.Len(t, refs, 2)
}

func TestSegmentIdentity(t *testing.T) {
	a := Keyword("SELECT")
	b := Keyword("SELECT")

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Equal(b))

	root, _, _, _, _, _ := buildSelect()
	clone := root.Clone()
	assert.True(t, root.Equal(clone))
	assert.NotEqual(t, root.ID(), clone.ID())

	ids := map[ID]bool{}
	root.Walk(func(s *Segment) bool { ids[s.ID()] = true; return true })
	clone.Walk(func(s *Segment) bool {
		assert.False(t, ids[s.ID()], "clone shares identity with %s", s)
		return true
	})
}

func TestWithChildrenSharesSubtrees(t *testing.T) {
	root, _, _, _, _, from := buildSelect()
	stmt := root.Children()[0]

	rebuilt := stmt.WithChildren([]*Segment{from})
	assert.Equal(t, TypeSelectStatement, rebuilt.Type())
	assert.Equal(t, "FROM t", rebuilt.Raw())
	assert.Same(t, from, rebuilt.Children()[0])
	assert.NotEqual(t, stmt.ID(), rebuilt.ID())
	assert.Equal(t, "SELECT a ,b\nFROM t", root.Raw(), "original untouched")
}

func TestRecursiveCrawl(t *testing.T) {
	root, _, _, _, _, _ := buildSelect()

	ids := root.RecursiveCrawl(true, TypeNakedIdentifier)
	require.Len(t, ids, 3)
	assert.Equal(t, "a", ids[0].Raw())
	assert.Equal(t, "t", ids[2].Raw())

	stmts := root.RecursiveCrawl(false, TypeSelectStatement, TypeColumnReference)
	assert.Len(t, stmts, 1, "no recursion into the statement")
}

func TestFirstAndLastLeaf(t *testing.T) {
	root, sel, _, _, _, _ := buildSelect()
	clause, _ := root.RecursiveCrawl(true, TypeSelectClause).First()

	first, ok := clause.FirstLeaf()
	require.True(t, ok)
	assert.Same(t, sel, first)

	last, ok := clause.LastLeaf()
	require.True(t, ok)
	assert.Equal(t, "b", last.Raw(), "dedent meta skipped")
}

func TestRawUpper(t *testing.T) {
	assert.Equal(t, "STRASSE", NewLeaf(TypeNakedIdentifier, "straße", token.Position{}).RawUpper())
	assert.Equal(t, "NULL", Keyword("null").RawUpper())
}
