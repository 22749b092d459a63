package transcript_test

import (
	"testing"

	"github.com/tailored-agentic-units/intelligence/core/transcript"
)

func TestBuilder(t *testing.T) {
	segs := transcript.NewBuilder().
		Text("first", "", "second").
		Textf("count %d", 3).
		Segment(transcript.Text("raw")).
		Segments()

	want := []string{"first", "second", "count 3", "raw"}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i, w := range want {
		if segs[i].Kind != transcript.SegmentText {
			t.Errorf("segment %d: got kind %q, want %q", i, segs[i].Kind, transcript.SegmentText)
		}
		if segs[i].Text != w {
			t.Errorf("segment %d: got %q, want %q", i, segs[i].Text, w)
		}
	}
}

func TestBuilder_Empty(t *testing.T) {
	b := transcript.NewBuilder().Text("", "")
	if b.Len() != 0 {
		t.Errorf("got %d segments, want 0", b.Len())
	}
	if segs := b.Segments(); segs != nil {
		t.Errorf("got %v, want nil", segs)
	}
}

func TestBuilder_SegmentsIsCopy(t *testing.T) {
	b := transcript.NewBuilder().Text("a")
	segs := b.Segments()
	segs[0].Text = "b"

	if got := b.Segments()[0].Text; got != "a" {
		t.Errorf("builder mutated through returned slice: got %q", got)
	}
}

func TestJoinText(t *testing.T) {
	tests := []struct {
		name string
		segs []transcript.Segment
		want string
	}{
		{"empty", nil, ""},
		{"single", transcript.Texts("one"), "one"},
		{"multiple", transcript.Texts("one", "two"), "one\ntwo"},
		{"ignores other kinds", []transcript.Segment{{Kind: "image"}, transcript.Text("x")}, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transcript.JoinText(tt.segs); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
