// Package segment implements the lossless, immutable syntax tree that the
// linter crawls and rewrites.
//
// A Segment is either a leaf holding raw source text or a node holding an
// ordered list of children. Concatenating the raw text of every leaf
// reproduces the parsed source exactly. Segments are never mutated after
// construction: edits build a new root that shares every untouched subtree
// with the previous one. Each segment carries a process-unique ID which is
// the identity fixes are anchored on.
package segment

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// ID is the process-unique identity of a segment.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Segment is a node or leaf of the syntax tree.
type Segment struct {
	id       ID
	types    []string // types[0] is the primary type
	raw      string
	children []*Segment
	pos      token.Position
	leaf     bool
	code     bool
}

// NewLeaf creates a leaf segment. pos is the source position the parser saw
// the text at; synthesized segments pass the zero Position.
func NewLeaf(typ, raw string, pos token.Position, extraTypes ...string) *Segment {
	s := &Segment{
		id:    nextID(),
		types: append([]string{typ}, extraTypes...),
		raw:   raw,
		pos:   pos,
		leaf:  true,
	}
	s.code = !nonCodeTypes[typ]
	return s
}

// NewNode creates a node segment with the given children.
func NewNode(typ string, children []*Segment, extraTypes ...string) *Segment {
	s := &Segment{
		id:       nextID(),
		types:    append([]string{typ}, extraTypes...),
		children: append([]*Segment(nil), children...),
	}
	s.init()
	return s
}

func (s *Segment) init() {
	var b strings.Builder
	for _, c := range s.children {
		b.WriteString(c.raw)
		if c.code {
			s.code = true
		}
		if !s.pos.IsValid() && c.pos.IsValid() {
			s.pos = c.pos
		}
	}
	s.raw = b.String()
}

// Keyword creates a synthesized keyword leaf.
func Keyword(raw string) *Segment {
	return NewLeaf(TypeKeyword, raw, token.Position{})
}

// Whitespace creates a synthesized whitespace leaf.
func Whitespace(raw string) *Segment {
	return NewLeaf(TypeWhitespace, raw, token.Position{})
}

// Newline creates a synthesized newline leaf.
func Newline() *Segment {
	return NewLeaf(TypeNewline, "\n", token.Position{})
}

// Symbol creates a synthesized punctuation or operator leaf.
func Symbol(typ, raw string) *Segment {
	return NewLeaf(typ, raw, token.Position{}, TypeSymbol)
}

// Indent creates an indent meta segment.
func Indent(pos token.Position) *Segment {
	return NewLeaf(TypeIndent, "", pos)
}

// Dedent creates a dedent meta segment.
func Dedent(pos token.Position) *Segment {
	return NewLeaf(TypeDedent, "", pos)
}

// ID returns the identity of the segment.
func (s *Segment) ID() ID { return s.id }

// Type returns the primary type tag.
func (s *Segment) Type() string { return s.types[0] }

// Types returns every type tag the segment answers to.
func (s *Segment) Types() []string {
	return append([]string(nil), s.types...)
}

// IsType reports whether the segment answers to any of the given types.
func (s *Segment) IsType(types ...string) bool {
	for _, want := range types {
		for _, have := range s.types {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Raw returns the exact source text covered by the segment.
func (s *Segment) Raw() string { return s.raw }

// RawUpper returns the raw text upper-cased.
func (s *Segment) RawUpper() string {
	return cases.Upper(language.Und).String(s.raw)
}

// Len returns the byte length of the raw text.
func (s *Segment) Len() int { return len(s.raw) }

// Pos returns the source position recorded by the parser. Segments created
// by fixes report an invalid position; use Tree.Position for working
// positions.
func (s *Segment) Pos() token.Position { return s.pos }

// IsLeaf reports whether the segment is a leaf.
func (s *Segment) IsLeaf() bool { return s.leaf }

// IsCode reports whether the segment is, or contains, code.
func (s *Segment) IsCode() bool { return s.code }

// IsMeta reports whether the segment is a zero-width structural marker.
func (s *Segment) IsMeta() bool { return metaTypes[s.types[0]] }

// IsWhitespace reports whether the segment is whitespace or a newline.
func (s *Segment) IsWhitespace() bool {
	return s.types[0] == TypeWhitespace || s.types[0] == TypeNewline
}

// IsNewline reports whether the segment is a newline.
func (s *Segment) IsNewline() bool { return s.types[0] == TypeNewline }

// IsComment reports whether the segment is a comment.
func (s *Segment) IsComment() bool { return s.IsType(TypeComment) }

// Children returns a copy of the ordered children.
func (s *Segment) Children() Segments {
	return append(Segments(nil), s.children...)
}

// NumChildren returns the number of direct children.
func (s *Segment) NumChildren() int { return len(s.children) }

// Child returns the first direct child answering to any of the types.
func (s *Segment) Child(types ...string) (*Segment, bool) {
	for _, c := range s.children {
		if c.IsType(types...) {
			return c, true
		}
	}
	return nil, false
}

// ChildrenOfType returns every direct child answering to any of the types.
func (s *Segment) ChildrenOfType(types ...string) Segments {
	var out Segments
	for _, c := range s.children {
		if c.IsType(types...) {
			out = append(out, c)
		}
	}
	return out
}

// RawSegments returns the leaves in document order, meta segments included.
func (s *Segment) RawSegments() Segments {
	if s.leaf {
		return Segments{s}
	}
	var out Segments
	s.Walk(func(seg *Segment) bool {
		if seg.leaf {
			out = append(out, seg)
		}
		return true
	})
	return out
}

// FirstLeaf returns the first non-meta leaf.
func (s *Segment) FirstLeaf() (*Segment, bool) {
	for _, l := range s.RawSegments() {
		if !l.IsMeta() {
			return l, true
		}
	}
	return nil, false
}

// LastLeaf returns the last non-meta leaf.
func (s *Segment) LastLeaf() (*Segment, bool) {
	leaves := s.RawSegments()
	for i := len(leaves) - 1; i >= 0; i-- {
		if !leaves[i].IsMeta() {
			return leaves[i], true
		}
	}
	return nil, false
}

// Walk visits the segment and its descendants in pre-order. Returning false
// from fn skips the children of the visited segment.
func (s *Segment) Walk(fn func(*Segment) bool) {
	if !fn(s) {
		return
	}
	for _, c := range s.children {
		c.Walk(fn)
	}
}

// RecursiveCrawl returns every descendant (and s itself) answering to any of
// the types, in document order. With recurseIntoMatch false the search does
// not look inside a match.
func (s *Segment) RecursiveCrawl(recurseIntoMatch bool, types ...string) Segments {
	var out Segments
	s.Walk(func(seg *Segment) bool {
		if seg.IsType(types...) {
			out = append(out, seg)
			return recurseIntoMatch
		}
		return true
	})
	return out
}

// WithChildren returns a new node with the same types and the given
// children. The result has a fresh identity.
func (s *Segment) WithChildren(children []*Segment) *Segment {
	return NewNode(s.types[0], children, s.types[1:]...)
}

// Clone returns a deep copy that is equal by content and distinct by
// identity, for the segment and every descendant.
func (s *Segment) Clone() *Segment {
	if s.leaf {
		c := *s
		c.id = nextID()
		c.types = append([]string(nil), s.types...)
		return &c
	}
	children := make([]*Segment, len(s.children))
	for i, child := range s.children {
		children[i] = child.Clone()
	}
	n := NewNode(s.types[0], children, s.types[1:]...)
	if s.pos.IsValid() {
		n.pos = s.pos
	}
	return n
}

// Equal reports whether two segments have the same types, raw text and
// shape. Identity is ignored.
func (s *Segment) Equal(other *Segment) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.leaf != other.leaf || s.raw != other.raw || len(s.types) != len(other.types) ||
		len(s.children) != len(other.children) {
		return false
	}
	for i := range s.types {
		if s.types[i] != other.types[i] {
			return false
		}
	}
	for i := range s.children {
		if !s.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// String renders a short debug form: type and quoted raw text.
func (s *Segment) String() string {
	return s.types[0] + "(" + quoteRaw(s.raw) + ")"
}

func quoteRaw(raw string) string {
	r := strings.NewReplacer("\n", `\n`, "\t", `\t`, "\r", `\r`)
	return "'" + r.Replace(raw) + "'"
}
