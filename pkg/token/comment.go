package token

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment
	BlockComment                    // /* comment */
)

// SegmentType returns the segment type tag used for comments of this kind.
func (k CommentKind) SegmentType() string {
	if k == BlockComment {
		return "block_comment"
	}
	return "inline_comment"
}
