package lint

import (
	"sort"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// FixGroup is the fixes of one LintResult. A group is applied atomically.
type FixGroup struct {
	RuleID string
	Fixes  []LintFix
}

// SkipReason says why a fix group was not applied.
type SkipReason int

// Skip reasons.
const (
	// SkipConflict means the group overlapped an earlier group this cycle.
	SkipConflict SkipReason = iota
	// SkipStaleAnchor means an anchor was not in the tree.
	SkipStaleAnchor
	// SkipInvalidEdit means the group was malformed.
	SkipInvalidEdit
)

// String returns the reason as shown to users.
func (r SkipReason) String() string {
	switch r {
	case SkipConflict:
		return "conflict"
	case SkipStaleAnchor:
		return "stale anchor"
	case SkipInvalidEdit:
		return "invalid edit"
	default:
		return "unknown"
	}
}

// MarshalText renders the reason by name.
func (r SkipReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// SkippedFix is a fix group that was not applied.
type SkippedFix struct {
	RuleID string     `json:"rule_id"`
	Reason SkipReason `json:"reason"`
	Loop   int        `json:"loop"`
	Err    error      `json:"-"`
}

// ApplyOutcome splits the groups handed to ApplyFixes.
type ApplyOutcome struct {
	Applied  []FixGroup
	Deferred []FixGroup   // conflicting; retried after the next crawl
	Rejected []SkippedFix // stale or invalid; never applied
}

type span struct{ start, end int }

func (s span) zeroWidth() bool { return s.start == s.end }

// overlaps decides whether two edit ranges touch the same text. Zero-width
// insertion points conflict with a range only when strictly inside it, and
// with each other only when equal, so an insertion may sit right at the
// boundary of a deletion.
func (s span) overlaps(o span) bool {
	switch {
	case s.zeroWidth() && o.zeroWidth():
		return s.start == o.start
	case s.zeroWidth():
		return o.start < s.start && s.start < o.end
	case o.zeroWidth():
		return s.start < o.start && o.start < s.end
	default:
		return s.start < o.end && o.start < s.end
	}
}

type preparedGroup struct {
	group FixGroup
	start int
	spans []span
}

// ApplyFixes applies every non-conflicting fix group to the tree and returns
// the new root. The input tree is left untouched; unedited subtrees are
// shared with the result.
//
// Groups are taken in order of their earliest position. A group that
// conflicts with one already accepted is deferred whole: same anchor,
// ancestor and descendant anchors, and overlapping ranges all conflict.
func ApplyFixes(tree *segment.Tree, groups []FixGroup) (*segment.Segment, ApplyOutcome) {
	var out ApplyOutcome

	prepared := make([]preparedGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.Fixes) == 0 {
			continue
		}
		pg, skip := prepareGroup(tree, g)
		if skip != nil {
			out.Rejected = append(out.Rejected, *skip)
			continue
		}
		prepared = append(prepared, pg)
	}
	sort.SliceStable(prepared, func(i, j int) bool {
		return prepared[i].start < prepared[j].start
	})

	var accepted []preparedGroup
	for _, pg := range prepared {
		if conflictsWithAny(tree, pg, accepted) {
			out.Deferred = append(out.Deferred, pg.group)
			continue
		}
		accepted = append(accepted, pg)
		out.Applied = append(out.Applied, pg.group)
	}
	if len(accepted) == 0 {
		return tree.Root(), out
	}

	ed := newEditor(tree)
	for _, pg := range accepted {
		for _, f := range pg.group.Fixes {
			ed.add(f)
		}
	}
	return ed.rebuild(tree.Root()), out
}

// prepareGroup validates a group and computes its spans.
func prepareGroup(tree *segment.Tree, g FixGroup) (preparedGroup, *SkippedFix) {
	pg := preparedGroup{group: g, start: -1}
	invalid := func(f LintFix, reason string) (preparedGroup, *SkippedFix) {
		return pg, &SkippedFix{
			RuleID: g.RuleID,
			Reason: SkipInvalidEdit,
			Err:    &InvalidEditError{RuleID: g.RuleID, Fix: f, Reason: reason},
		}
	}

	for _, f := range g.Fixes {
		if !tree.Contains(f.Anchor) {
			return pg, &SkippedFix{
				RuleID: g.RuleID,
				Reason: SkipStaleAnchor,
				Err:    &StaleAnchorError{RuleID: g.RuleID, Anchor: f.Anchor},
			}
		}
		if f.Anchor.ID() == tree.Root().ID() {
			return invalid(f, "the root cannot be edited")
		}
		if f.Edit != EditDelete && len(f.Segments) == 0 {
			return invalid(f, "no segments to insert")
		}
		if f.Edit < EditDelete || f.Edit > EditCreateAfter {
			return invalid(f, "unknown edit type")
		}

		start, end, _ := tree.Span(f.Anchor)
		s := span{start, end}
		switch f.Edit {
		case EditCreateBefore:
			s = span{start, start}
		case EditCreateAfter:
			s = span{end, end}
		}
		pg.spans = append(pg.spans, s)
		if pg.start < 0 || s.start < pg.start {
			pg.start = s.start
		}
	}

	// Within one group, inserts may share an anchor; anything that removes
	// the anchor must be the only edit touching it or its subtree.
	for i, a := range g.Fixes {
		for _, b := range g.Fixes[i+1:] {
			sameAnchor := a.Anchor.ID() == b.Anchor.ID()
			nested := tree.IsAncestor(a.Anchor, b.Anchor) || tree.IsAncestor(b.Anchor, a.Anchor)
			if (sameAnchor || nested) && !(a.isCreate() && b.isCreate()) {
				return invalid(b, "overlaps another edit in the same result")
			}
		}
	}
	return pg, nil
}

func conflictsWithAny(tree *segment.Tree, pg preparedGroup, accepted []preparedGroup) bool {
	for _, other := range accepted {
		for i, a := range pg.group.Fixes {
			for j, b := range other.group.Fixes {
				if fixesConflict(tree, a, b, pg.spans[i], other.spans[j]) {
					return true
				}
			}
		}
	}
	return false
}

func fixesConflict(tree *segment.Tree, a, b LintFix, sa, sb span) bool {
	if a.Anchor.ID() == b.Anchor.ID() {
		return true
	}
	if tree.IsAncestor(a.Anchor, b.Anchor) || tree.IsAncestor(b.Anchor, a.Anchor) {
		return true
	}
	return sa.overlaps(sb)
}

// editor rebuilds the paths from the root to every anchor.
type editor struct {
	tree     *segment.Tree
	edits    map[segment.ID][]LintFix
	touched  map[segment.ID]bool
	inserted map[segment.ID]bool
}

func newEditor(tree *segment.Tree) *editor {
	return &editor{
		tree:     tree,
		edits:    make(map[segment.ID][]LintFix),
		touched:  make(map[segment.ID]bool),
		inserted: make(map[segment.ID]bool),
	}
}

func (e *editor) add(f LintFix) {
	e.edits[f.Anchor.ID()] = append(e.edits[f.Anchor.ID()], f)
	for _, p := range e.tree.Path(f.Anchor) {
		e.touched[p.ID()] = true
	}
}

func (e *editor) rebuild(node *segment.Segment) *segment.Segment {
	if !e.touched[node.ID()] {
		return node
	}
	children := node.Children()
	kids := make([]*segment.Segment, 0, len(children))
	for _, c := range children {
		fixes := e.edits[c.ID()]
		var before, after, replacement []*segment.Segment
		removed := false
		for _, f := range fixes {
			switch f.Edit {
			case EditCreateBefore:
				before = append(before, e.fresh(f.Segments)...)
			case EditCreateAfter:
				after = append(after, e.fresh(f.Segments)...)
			case EditReplace:
				replacement = e.fresh(f.Segments)
				removed = true
			case EditDelete:
				removed = true
			}
		}
		kids = append(kids, before...)
		if removed {
			kids = append(kids, replacement...)
		} else {
			kids = append(kids, e.rebuild(c))
		}
		kids = append(kids, after...)
	}
	return node.WithChildren(kids)
}

// fresh returns segs ready for insertion. A segment that is still part of
// the tree, or already inserted elsewhere, is cloned so no segment appears
// twice in the result.
func (e *editor) fresh(segs []*segment.Segment) []*segment.Segment {
	out := make([]*segment.Segment, len(segs))
	for i, s := range segs {
		if e.inUse(s) {
			s = s.Clone()
		}
		s.Walk(func(d *segment.Segment) bool {
			e.inserted[d.ID()] = true
			return true
		})
		out[i] = s
	}
	return out
}

func (e *editor) inUse(s *segment.Segment) bool {
	used := false
	s.Walk(func(d *segment.Segment) bool {
		if used {
			return false
		}
		used = e.tree.Contains(d) || e.inserted[d.ID()]
		return !used
	})
	return used
}
