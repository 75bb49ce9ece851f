package lint

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/layout"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// RuleContext is everything a rule sees for one evaluation. It is built
// fresh for every (rule, segment) pair and never shared between rules.
type RuleContext struct {
	// Segment is the segment being evaluated.
	Segment *segment.Segment

	// ParentStack holds the ancestors of Segment, root first.
	ParentStack []*segment.Segment

	// SiblingsPre and SiblingsPost are the parent's other children before
	// and after Segment.
	SiblingsPre  segment.Segments
	SiblingsPost segment.Segments

	Dialect *dialect.Dialect
	Layout  layout.Config
	Options map[string]any

	// Tree is the snapshot the segment belongs to.
	Tree *segment.Tree
}

// Parent returns the direct parent of the segment.
func (c *RuleContext) Parent() (*segment.Segment, bool) {
	return c.Ancestor(1)
}

// Ancestor returns the n-th ancestor: 1 is the parent, 2 the grandparent.
func (c *RuleContext) Ancestor(n int) (*segment.Segment, bool) {
	i := len(c.ParentStack) - n
	if n < 1 || i < 0 {
		return nil, false
	}
	return c.ParentStack[i], true
}

// Root returns the root of the tree.
func (c *RuleContext) Root() *segment.Segment {
	return c.Tree.Root()
}

// DialectName returns the active dialect's name.
func (c *RuleContext) DialectName() string {
	if c.Dialect == nil {
		return ""
	}
	return c.Dialect.GetName()
}

// assemble builds the context for one crawl target.
func assemble(t Target, tree *segment.Tree, d *dialect.Dialect, lay layout.Config, opts map[string]any) *RuleContext {
	ctx := &RuleContext{
		Segment:     t.Segment,
		ParentStack: t.Path,
		Dialect:     d,
		Layout:      lay,
		Options:     opts,
		Tree:        tree,
	}
	if parent, ok := t.Parent(); ok && t.Index >= 0 {
		siblings := parent.Children()
		ctx.SiblingsPre = siblings[:t.Index]
		ctx.SiblingsPost = siblings[t.Index+1:]
	}
	return ctx
}
