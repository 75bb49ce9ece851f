package lint

import (
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Target is one segment selected by a crawler, with the ancestry the context
// assembler needs.
type Target struct {
	Segment *segment.Segment
	Path    []*segment.Segment // ancestors, root first
	Index   int                // position among the parent's children; -1 for the root
}

// Parent returns the direct parent of the target.
func (t Target) Parent() (*segment.Segment, bool) {
	if len(t.Path) == 0 {
		return nil, false
	}
	return t.Path[len(t.Path)-1], true
}

// Crawler decides which segments a rule is evaluated on.
type Crawler interface {
	Crawl(root *segment.Segment) []Target
}

// RootOnly yields the root segment once.
type RootOnly struct{}

// Crawl implements Crawler.
func (RootOnly) Crawl(root *segment.Segment) []Target {
	return []Target{{Segment: root, Index: -1}}
}

// SegmentSeeker yields every segment answering to one of Types, in document
// order. With AllowRecurse false it does not look inside a match.
type SegmentSeeker struct {
	Types        []string
	AllowRecurse bool
}

// SeekTypes returns a recursive SegmentSeeker for the given types.
func SeekTypes(types ...string) SegmentSeeker {
	return SegmentSeeker{Types: types, AllowRecurse: true}
}

type crawlFrame struct {
	seg   *segment.Segment
	path  []*segment.Segment
	index int
}

// Crawl implements Crawler. The walk uses an explicit stack so deeply nested
// queries cannot exhaust the goroutine stack.
func (s SegmentSeeker) Crawl(root *segment.Segment) []Target {
	var out []Target
	stack := []crawlFrame{{seg: root, index: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.seg.IsType(s.Types...) {
			out = append(out, Target{Segment: f.seg, Path: f.path, Index: f.index})
			if !s.AllowRecurse {
				continue
			}
		}
		if f.seg.IsLeaf() {
			continue
		}

		// The three-index slice forces append to copy, so sibling frames
		// never share a backing array.
		childPath := append(f.path[:len(f.path):len(f.path)], f.seg)
		children := f.seg.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, crawlFrame{seg: children[i], path: childPath, index: i})
		}
	}
	return out
}
