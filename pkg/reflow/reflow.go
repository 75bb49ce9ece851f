// Package reflow computes whitespace edits around a segment so that the
// result follows the layout spacing policy.
//
// A Sequence is a flat window of leaves around a target. Callers stage
// replacements of code segments, then ask the sequence to respace; the
// resulting fixes only ever touch whitespace, apart from the staged
// replacements themselves. Meta segments (indent and dedent markers) are
// never edited and are left out of the boundary walk; Leaves(true) shows
// them when a caller asks for the full window.
//
//	seq := reflow.FromAroundTarget(op, ctx.Tree, reflow.ScopeBoth, ctx.Layout).
//		Replace(op, segment.Keyword("IS")).
//		Respace(false, reflow.FilterAll)
//	fixes, err := seq.Fixes()
package reflow

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/layout"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Config is the spacing policy.
type Config = layout.Config

var (
	// ErrTargetNotInTree is returned when the target is not in the snapshot.
	ErrTargetNotInTree = errors.New("reflow: target is not in the tree")
	// ErrNotInSequence is returned when a replaced segment is outside the window.
	ErrNotInSequence = errors.New("reflow: segment is not in the sequence")
	// ErrAlreadyRespaced is returned when Replace follows Respace.
	ErrAlreadyRespaced = errors.New("reflow: sequence already respaced")
)

// Scope selects which side of the target the window extends to.
type Scope int

// Scopes.
const (
	ScopeBoth Scope = iota
	ScopeBefore
	ScopeAfter
)

// Filter selects which kinds of boundary Respace looks at.
type Filter int

// Filters.
const (
	// FilterAll looks at every boundary.
	FilterAll Filter = iota
	// FilterInline looks only at boundaries without a line break.
	FilterInline
	// FilterNewline looks only at boundaries containing a line break.
	FilterNewline
)

// staged is a replacement recorded by Replace. Respace may still edit the
// top-level whitespace in segs.
type staged struct {
	old  *segment.Segment
	segs []*segment.Segment
}

// element is one leaf of the window.
type element struct {
	leaf  *segment.Segment
	stage *staged          // set for leaves of a staged replacement
	top   *segment.Segment // the top-level staged segment holding leaf
}

// isBlock reports whether the element is a code or comment leaf.
func (e element) isBlock() bool {
	return !e.leaf.IsWhitespace() && !e.leaf.IsMeta()
}

type insertion struct {
	candidates []*segment.Segment // outermost first, the leaf last
	seg        *segment.Segment
}

// Sequence is a window of leaves plus the edits computed for it. Errors are
// sticky: once a step fails, later steps are no-ops and Fixes returns the
// error.
type Sequence struct {
	tree     *segment.Tree
	cfg      Config
	elems    []element
	stages   []*staged
	edits    []lint.LintFix
	inserts  []insertion
	respaced bool
	err      error
}

// FromAroundTarget builds the window around target: the target's leaves
// extended on the requested sides up to and including the nearest code or
// comment leaf. A nil cfg means the default policy.
func FromAroundTarget(target *segment.Segment, tree *segment.Tree, scope Scope, cfg Config) *Sequence {
	s := &Sequence{tree: tree, cfg: cfg}
	if s.cfg == nil {
		s.cfg = layout.Default()
	}
	if !tree.Contains(target) {
		s.err = fmt.Errorf("%w: %v", ErrTargetNotInTree, target)
		return s
	}

	leaves := tree.Root().RawSegments()
	own := target.RawSegments()
	if len(own) == 0 {
		s.err = fmt.Errorf("%w: %v", ErrNotInSequence, target)
		return s
	}
	first := slices.IndexFunc(leaves, func(l *segment.Segment) bool { return l.ID() == own[0].ID() })
	last := first + len(own) - 1

	if scope == ScopeBoth || scope == ScopeBefore {
		for first > 0 {
			first--
			if (element{leaf: leaves[first]}).isBlock() {
				break
			}
		}
	}
	if scope == ScopeBoth || scope == ScopeAfter {
		for last < len(leaves)-1 {
			last++
			if (element{leaf: leaves[last]}).isBlock() {
				break
			}
		}
	}

	for _, l := range leaves[first : last+1] {
		s.elems = append(s.elems, element{leaf: l})
	}
	return s
}

// Err returns the sticky error, if any.
func (s *Sequence) Err() error { return s.err }

// Raw returns the working text of the window with staged replacements.
func (s *Sequence) Raw() string {
	var out []byte
	for _, e := range s.elems {
		out = append(out, e.leaf.Raw()...)
	}
	return string(out)
}

// Leaves returns the working leaves of the window, staged replacements
// included. Meta segments are dropped unless keepMeta is set.
func (s *Sequence) Leaves(keepMeta bool) segment.Segments {
	out := make(segment.Segments, 0, len(s.elems))
	for _, e := range s.elems {
		if keepMeta || !e.leaf.IsMeta() {
			out = append(out, e.leaf)
		}
	}
	return out
}

// Replace stages the substitution of old, which must lie in the window, by
// segs. It must be called before Respace.
func (s *Sequence) Replace(old *segment.Segment, segs ...*segment.Segment) *Sequence {
	if s.err != nil {
		return s
	}
	if s.respaced {
		s.err = ErrAlreadyRespaced
		return s
	}

	own := old.RawSegments()
	if len(own) == 0 {
		s.err = fmt.Errorf("%w: %v", ErrNotInSequence, old)
		return s
	}
	i := slices.IndexFunc(s.elems, func(e element) bool {
		return e.stage == nil && e.leaf.ID() == own[0].ID()
	})
	if i < 0 || i+len(own) > len(s.elems) {
		s.err = fmt.Errorf("%w: %v", ErrNotInSequence, old)
		return s
	}
	for k, l := range own {
		if e := s.elems[i+k]; e.stage != nil || e.leaf.ID() != l.ID() {
			s.err = fmt.Errorf("%w: %v", ErrNotInSequence, old)
			return s
		}
	}

	st := &staged{old: old, segs: slices.Clone(segs)}
	var repl []element
	for _, top := range st.segs {
		for _, l := range top.RawSegments() {
			repl = append(repl, element{leaf: l, stage: st, top: top})
		}
	}
	s.elems = slices.Replace(s.elems, i, i+len(own), repl...)
	s.stages = append(s.stages, st)
	return s
}

// Respace walks every boundary between adjacent blocks of the window and
// records the edits needed to satisfy the spacing policy. Boundaries holding
// a line break are left alone unless stripNewlines is set, in which case
// the line break is collapsed like any other whitespace.
func (s *Sequence) Respace(stripNewlines bool, filter Filter) *Sequence {
	if s.err != nil {
		return s
	}
	s.respaced = true

	var blocks []int
	for i, e := range s.elems {
		if e.isBlock() {
			blocks = append(blocks, i)
		}
	}
	for k := 0; k+1 < len(blocks); k++ {
		a, b := blocks[k], blocks[k+1]
		var gap []element
		for _, e := range s.elems[a+1 : b] {
			if !e.leaf.IsMeta() {
				gap = append(gap, e)
			}
		}
		s.respacePoint(s.elems[a], s.elems[b], gap, stripNewlines, filter)
	}
	return s
}

func (s *Sequence) respacePoint(a, b element, gap []element, stripNewlines bool, filter Filter) {
	hasNewline := slices.ContainsFunc(gap, func(e element) bool { return e.leaf.IsNewline() })
	switch {
	case filter == FilterInline && hasNewline,
		filter == FilterNewline && !hasNewline,
		hasNewline && !stripNewlines,
		a.leaf.IsComment() || b.leaf.IsComment():
		return
	}

	var want string
	switch layout.Resolve(s.cfg.After(s.typesAfter(a)...), s.cfg.Before(s.typesBefore(b)...)) {
	case layout.Any:
		return
	case layout.Single:
		want = " "
	}

	var existing string
	for _, g := range gap {
		existing += g.leaf.Raw()
	}
	if existing == want {
		return
	}
	if len(gap) == 0 {
		s.insert(a, b, segment.Whitespace(" "))
		return
	}

	keep := -1
	if want == " " {
		keep = max(slices.IndexFunc(gap, func(e element) bool { return !e.leaf.IsNewline() }), 0)
	}
	for i, g := range gap {
		if i != keep {
			s.deleteElem(g)
			continue
		}
		if g.leaf.Raw() != want {
			s.replaceElem(g, segment.Whitespace(want))
		}
	}
}

func (s *Sequence) deleteElem(e element) {
	if e.stage == nil {
		s.edits = append(s.edits, lint.Delete(e.leaf))
		return
	}
	if e.top == e.leaf {
		e.stage.segs = slices.DeleteFunc(e.stage.segs, func(x *segment.Segment) bool { return x == e.leaf })
	}
}

func (s *Sequence) replaceElem(e element, with *segment.Segment) {
	if e.stage == nil {
		s.edits = append(s.edits, lint.Replace(e.leaf, with))
		return
	}
	if e.top == e.leaf {
		if i := slices.Index(e.stage.segs, e.leaf); i >= 0 {
			e.stage.segs[i] = with
		}
	}
}

// insert places ws between a and b. Staged replacements absorb the
// whitespace; otherwise it is inserted before the outermost segment starting
// at b.
func (s *Sequence) insert(a, b element, ws *segment.Segment) {
	switch {
	case a.stage != nil && b.stage == a.stage && a.top == b.top:
		// Inside one new segment: the caller built it, leave it be.
	case a.stage != nil:
		if i := slices.Index(a.stage.segs, a.top); i >= 0 {
			a.stage.segs = slices.Insert(a.stage.segs, i+1, ws)
		}
	case b.stage != nil:
		if i := slices.Index(b.stage.segs, b.top); i >= 0 {
			b.stage.segs = slices.Insert(b.stage.segs, i, ws)
		}
	default:
		start, _, _ := s.tree.Span(b.leaf)
		var candidates []*segment.Segment
		for _, p := range s.tree.Path(b.leaf) {
			if ps, _, _ := s.tree.Span(p); ps == start && p.ID() != s.tree.Root().ID() {
				candidates = append(candidates, p)
			}
		}
		candidates = append(candidates, b.leaf)
		s.inserts = append(s.inserts, insertion{candidates: candidates, seg: ws})
	}
}

// typesBefore returns the types that decide the spacing before e: its own,
// then those of the enclosing segments starting at it, innermost first.
func (s *Sequence) typesBefore(e element) []string {
	return s.policyTypes(e, true)
}

// typesAfter is typesBefore for the segments ending at e.
func (s *Sequence) typesAfter(e element) []string {
	return s.policyTypes(e, false)
}

func (s *Sequence) policyTypes(e element, before bool) []string {
	types := slices.Clone(e.leaf.Types())
	if e.stage != nil {
		var enclosing [][]string
		e.top.Walk(func(n *segment.Segment) bool {
			if n.IsLeaf() {
				return false
			}
			edge, ok := n.LastLeaf()
			if before {
				edge, ok = n.FirstLeaf()
			}
			if ok && edge == e.leaf {
				enclosing = append(enclosing, n.Types())
			}
			return true
		})
		for i := len(enclosing) - 1; i >= 0; i-- {
			types = append(types, enclosing[i]...)
		}
		return types
	}

	start, end, _ := s.tree.Span(e.leaf)
	path := s.tree.Path(e.leaf)
	for i := len(path) - 1; i >= 0; i-- {
		ps, pe, _ := s.tree.Span(path[i])
		if (before && ps != start) || (!before && pe != end) {
			break
		}
		types = append(types, path[i].Types()...)
	}
	return types
}

// Fixes returns the edits: staged replacements, whitespace edits and
// insertions. An insertion is anchored as high in the tree as possible
// without nesting with another anchor of the same set.
func (s *Sequence) Fixes() ([]lint.LintFix, error) {
	if s.err != nil {
		return nil, s.err
	}
	fixes := slices.Clone(s.edits)
	for _, st := range s.stages {
		if len(st.segs) == 0 {
			fixes = append(fixes, lint.Delete(st.old))
			continue
		}
		fixes = append(fixes, lint.Replace(st.old, st.segs...))
	}

	anchors := make([]*segment.Segment, 0, len(fixes)+len(s.inserts))
	for _, f := range fixes {
		anchors = append(anchors, f.Anchor)
	}
	for _, ins := range s.inserts {
		anchor := ins.candidates[len(ins.candidates)-1]
		for _, c := range ins.candidates {
			if !s.nests(c, anchors) {
				anchor = c
				break
			}
		}
		fixes = append(fixes, lint.CreateBefore(anchor, ins.seg))
		anchors = append(anchors, anchor)
	}
	return fixes, nil
}

func (s *Sequence) nests(c *segment.Segment, anchors []*segment.Segment) bool {
	for _, a := range anchors {
		if a.ID() == c.ID() || s.tree.IsAncestor(c, a) || s.tree.IsAncestor(a, c) {
			return true
		}
	}
	return false
}

// FilterMeta drops meta segments.
func FilterMeta(segs segment.Segments) segment.Segments {
	return segs.Filter(segment.Not(segment.IsMeta))
}
