package segment

import (
	"errors"
	"strings"
)

// ErrSegmentNotFound is returned when a segment is not part of a sequence.
var ErrSegmentNotFound = errors.New("segment not found")

// Predicate tests a segment.
type Predicate func(*Segment) bool

// Segments is an immutable ordered sequence of segments with a functional
// query API. No method mutates the receiver.
type Segments []*Segment

// Raw concatenates the raw text of every segment.
func (ss Segments) Raw() string {
	var b strings.Builder
	for _, s := range ss {
		b.WriteString(s.raw)
	}
	return b.String()
}

// Find returns the index of seg by identity.
func (ss Segments) Find(seg *Segment) (int, error) {
	if seg != nil {
		for i, s := range ss {
			if s.id == seg.id {
				return i, nil
			}
		}
	}
	return -1, ErrSegmentNotFound
}

// Select returns the segments matching pred, scanning from start (exclusive)
// to stop (exclusive) and ending early at the first segment failing
// loopWhile. Nil predicates match everything and nil bounds mean the ends of
// the sequence. A non-nil bound that is not in the sequence is a programming
// error and panics with ErrSegmentNotFound.
func (ss Segments) Select(pred, loopWhile Predicate, start, stop *Segment) Segments {
	from, to := 0, len(ss)
	if start != nil {
		i, err := ss.Find(start)
		if err != nil {
			panic(err)
		}
		from = i + 1
	}
	if stop != nil {
		i, err := ss.Find(stop)
		if err != nil {
			panic(err)
		}
		to = i
	}
	var out Segments
	for i := from; i < to; i++ {
		s := ss[i]
		if loopWhile != nil && !loopWhile(s) {
			break
		}
		if pred == nil || pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// Filter returns the segments matching pred.
func (ss Segments) Filter(pred Predicate) Segments {
	return ss.Select(pred, nil, nil, nil)
}

// FindFirst returns the first segment matching pred.
func (ss Segments) FindFirst(pred Predicate) (*Segment, bool) {
	for _, s := range ss {
		if pred == nil || pred(s) {
			return s, true
		}
	}
	return nil, false
}

// First returns the first segment.
func (ss Segments) First() (*Segment, bool) {
	if len(ss) == 0 {
		return nil, false
	}
	return ss[0], true
}

// Last returns the last segment.
func (ss Segments) Last() (*Segment, bool) {
	if len(ss) == 0 {
		return nil, false
	}
	return ss[len(ss)-1], true
}

// Get returns the segment at index i, counting from the end when negative.
func (ss Segments) Get(i int) (*Segment, bool) {
	if i < 0 {
		i += len(ss)
	}
	if i < 0 || i >= len(ss) {
		return nil, false
	}
	return ss[i], true
}

// Reversed returns the sequence in reverse order.
func (ss Segments) Reversed() Segments {
	out := make(Segments, len(ss))
	for i, s := range ss {
		out[len(ss)-1-i] = s
	}
	return out
}

// Children returns the direct children of every segment, in order,
// filtered by pred.
func (ss Segments) Children(pred Predicate) Segments {
	var out Segments
	for _, s := range ss {
		for _, c := range s.children {
			if pred == nil || pred(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Any reports whether any segment matches pred.
func (ss Segments) Any(pred Predicate) bool {
	_, ok := ss.FindFirst(pred)
	return ok
}

// All reports whether every segment matches pred. It is true for an empty
// sequence.
func (ss Segments) All(pred Predicate) bool {
	for _, s := range ss {
		if !pred(s) {
			return false
		}
	}
	return true
}

// IsType returns a predicate matching segments of any of the types.
func IsType(types ...string) Predicate {
	return func(s *Segment) bool { return s.IsType(types...) }
}

// IsCode matches code segments.
func IsCode(s *Segment) bool { return s.IsCode() }

// IsMeta matches meta segments.
func IsMeta(s *Segment) bool { return s.IsMeta() }

// IsWhitespace matches whitespace and newlines.
func IsWhitespace(s *Segment) bool { return s.IsWhitespace() }

// IsNewline matches newlines.
func IsNewline(s *Segment) bool { return s.IsNewline() }

// IsComment matches comments.
func IsComment(s *Segment) bool { return s.IsComment() }

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(s *Segment) bool { return !p(s) }
}

// And matches when every predicate matches.
func And(ps ...Predicate) Predicate {
	return func(s *Segment) bool {
		for _, p := range ps {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(ps ...Predicate) Predicate {
	return func(s *Segment) bool {
		for _, p := range ps {
			if p(s) {
				return true
			}
		}
		return false
	}
}

// RawIs matches segments whose upper-cased raw text is one of values.
func RawIs(values ...string) Predicate {
	return func(s *Segment) bool {
		upper := s.RawUpper()
		for _, v := range values {
			if upper == strings.ToUpper(v) {
				return true
			}
		}
		return false
	}
}
