package segment

import "github.com/leapstack-labs/leaplint/pkg/token"

// PositionMarker locates a segment in both the original source and the
// current working text of a tree snapshot.
type PositionMarker struct {
	Source     token.Position // zero for segments introduced by fixes
	Working    token.Position
	WorkingEnd token.Position
}

type treeEntry struct {
	parent *Segment
	index  int
	depth  int
	start  token.Position
	end    token.Position
}

// Tree is a read-only snapshot of a segment tree with parent links and
// working positions computed once. A new Tree must be built whenever the
// root changes; segments themselves never point at their parents.
type Tree struct {
	root    *Segment
	entries map[ID]treeEntry
}

// NewTree indexes the tree rooted at root.
func NewTree(root *Segment) *Tree {
	t := &Tree{root: root, entries: make(map[ID]treeEntry)}
	t.index(root, nil, 0, 0, token.Position{Line: 1, Column: 1})
	return t
}

func (t *Tree) index(s, parent *Segment, idx, depth int, start token.Position) token.Position {
	end := start
	if s.leaf {
		end = start.Advance(s.raw)
	} else {
		for i, c := range s.children {
			end = t.index(c, s, i, depth+1, end)
		}
	}
	t.entries[s.id] = treeEntry{parent: parent, index: idx, depth: depth, start: start, end: end}
	return end
}

// Root returns the root segment.
func (t *Tree) Root() *Segment { return t.root }

// Raw returns the working text of the snapshot.
func (t *Tree) Raw() string { return t.root.raw }

// Contains reports whether the segment is part of this snapshot.
func (t *Tree) Contains(s *Segment) bool {
	if s == nil {
		return false
	}
	_, ok := t.entries[s.id]
	return ok
}

// Parent returns the parent of s and the index of s among its siblings.
func (t *Tree) Parent(s *Segment) (*Segment, int, bool) {
	e, ok := t.entries[s.id]
	if !ok || e.parent == nil {
		return nil, 0, false
	}
	return e.parent, e.index, true
}

// Path returns the ancestors of s, root first, excluding s. It returns nil
// for the root and for segments outside the snapshot.
func (t *Tree) Path(s *Segment) []*Segment {
	e, ok := t.entries[s.id]
	if !ok {
		return nil
	}
	path := make([]*Segment, e.depth)
	for p := e.parent; p != nil; p = t.entries[p.id].parent {
		path[t.entries[p.id].depth] = p
	}
	return path
}

// IsAncestor reports whether a is a proper ancestor of b.
func (t *Tree) IsAncestor(a, b *Segment) bool {
	e, ok := t.entries[b.id]
	if !ok {
		return false
	}
	for p := e.parent; p != nil; p = t.entries[p.id].parent {
		if p.id == a.id {
			return true
		}
	}
	return false
}

// Position returns the position marker of s within the snapshot.
func (t *Tree) Position(s *Segment) (PositionMarker, bool) {
	e, ok := t.entries[s.id]
	if !ok {
		return PositionMarker{}, false
	}
	return PositionMarker{Source: s.pos, Working: e.start, WorkingEnd: e.end}, true
}

// Span returns the working byte range [start, end) of s.
func (t *Tree) Span(s *Segment) (start, end int, ok bool) {
	e, ok := t.entries[s.id]
	if !ok {
		return 0, 0, false
	}
	return e.start.Offset, e.end.Offset, true
}

// Siblings returns the children of the parent of s split around s.
func (t *Tree) Siblings(s *Segment) (before, after Segments, ok bool) {
	parent, idx, ok := t.Parent(s)
	if !ok {
		return nil, nil, false
	}
	return append(Segments(nil), parent.children[:idx]...),
		append(Segments(nil), parent.children[idx+1:]...), true
}
