package lint

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// EditType is the kind of structural edit a fix performs.
type EditType int

// Edit kinds.
const (
	// EditDelete removes the anchor.
	EditDelete EditType = iota
	// EditReplace swaps the anchor for the fix's segments.
	EditReplace
	// EditCreateBefore inserts the fix's segments before the anchor.
	EditCreateBefore
	// EditCreateAfter inserts the fix's segments after the anchor.
	EditCreateAfter
)

// String returns the edit name.
func (e EditType) String() string {
	switch e {
	case EditDelete:
		return "delete"
	case EditReplace:
		return "replace"
	case EditCreateBefore:
		return "create_before"
	case EditCreateAfter:
		return "create_after"
	default:
		return "unknown"
	}
}

// LintFix is one edit anchored on a segment of the current tree.
type LintFix struct {
	Edit     EditType
	Anchor   *segment.Segment
	Segments []*segment.Segment
}

// Delete removes anchor.
func Delete(anchor *segment.Segment) LintFix {
	return LintFix{Edit: EditDelete, Anchor: anchor}
}

// Replace swaps anchor for segs.
func Replace(anchor *segment.Segment, segs ...*segment.Segment) LintFix {
	return LintFix{Edit: EditReplace, Anchor: anchor, Segments: segs}
}

// CreateBefore inserts segs immediately before anchor.
func CreateBefore(anchor *segment.Segment, segs ...*segment.Segment) LintFix {
	return LintFix{Edit: EditCreateBefore, Anchor: anchor, Segments: segs}
}

// CreateAfter inserts segs immediately after anchor.
func CreateAfter(anchor *segment.Segment, segs ...*segment.Segment) LintFix {
	return LintFix{Edit: EditCreateAfter, Anchor: anchor, Segments: segs}
}

// String renders the fix for logs and test failures.
func (f LintFix) String() string {
	return fmt.Sprintf("%s(%v -> %q)", f.Edit, f.Anchor, segment.Segments(f.Segments).Raw())
}

// isCreate reports whether the fix only inserts.
func (f LintFix) isCreate() bool {
	return f.Edit == EditCreateBefore || f.Edit == EditCreateAfter
}

// LintResult is what a rule reports for one problem: where it is, what is
// wrong and optionally how to fix it. All fixes of one result form a group
// that is applied together or not at all.
type LintResult struct {
	Anchor  *segment.Segment
	Fixes   []LintFix
	Message string
	Related []*segment.Segment
}
