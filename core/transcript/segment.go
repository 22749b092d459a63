package transcript

import (
	"fmt"
	"strings"
)

// SegmentKind identifies the content carried by a Segment.
type SegmentKind string

// SegmentText is the only segment kind currently produced.
const SegmentText SegmentKind = "text"

// Segment is the atomic content unit inside an entry.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text"`
}

// Text creates a text segment.
func Text(s string) Segment {
	return Segment{Kind: SegmentText, Text: s}
}

// Texts creates one text segment per string, skipping empty strings.
func Texts(texts ...string) []Segment {
	return NewBuilder().Text(texts...).Segments()
}

// JoinText concatenates the text of all text segments, separated by newlines.
func JoinText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Kind == SegmentText {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Builder assembles an ordered list of segments for instructions and prompts.
//
//	segs := transcript.NewBuilder().
//		Text("You are a flashcard tutor.").
//		Textf("Answer in %s.", lang).
//		Segments()
type Builder struct {
	segments []Segment
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Text appends a text segment for each non-empty string.
func (b *Builder) Text(texts ...string) *Builder {
	for _, s := range texts {
		if s == "" {
			continue
		}
		b.segments = append(b.segments, Text(s))
	}
	return b
}

// Textf appends a formatted text segment.
func (b *Builder) Textf(format string, args ...any) *Builder {
	return b.Text(fmt.Sprintf(format, args...))
}

// Segment appends an already constructed segment.
func (b *Builder) Segment(s Segment) *Builder {
	b.segments = append(b.segments, s)
	return b
}

// Len reports how many segments have been added.
func (b *Builder) Len() int {
	return len(b.segments)
}

// Segments returns a copy of the accumulated segments. An empty builder
// returns nil.
func (b *Builder) Segments() []Segment {
	return cloneSegments(b.segments)
}

func cloneSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	out := make([]Segment, len(segments))
	copy(out, segments)
	return out
}
