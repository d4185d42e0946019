package subtitles

import (
	"strings"
	"testing"
	"time"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:02,500
Hello there.

2
00:00:03,000 --> 00:00:04,000


3
00:01:05,250 --> 01:00:00,001
Two lines
of text
`

func TestParseSRT(t *testing.T) {
	cues, err := ParseSRT(sampleSRT)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if cues[0].Index != 1 || cues[0].Start != time.Second || cues[0].End != 2500*time.Millisecond {
		t.Fatalf("unexpected first cue: %+v", cues[0])
	}
	if !cues[1].Blank() {
		t.Fatalf("second cue should be blank: %+v", cues[1])
	}
	if cues[2].Text != "Two lines\nof text" {
		t.Fatalf("unexpected multi-line text %q", cues[2].Text)
	}
	if cues[2].End != time.Hour+time.Millisecond {
		t.Fatalf("unexpected end %s", cues[2].End)
	}
}

func TestParseSRTToleratesCRLFAndBOM(t *testing.T) {
	content := "\ufeff" + strings.ReplaceAll(sampleSRT, "\n", "\r\n")
	cues, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(cues) != 3 || cues[0].Text != "Hello there." {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParseSRTWithoutIndexes(t *testing.T) {
	content := "00:00:01.000 --> 00:00:02.000 align:start\nfirst\n\n00:00:03.000 --> 00:00:04.000\nsecond\n"
	cues, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(cues) != 2 || cues[1].Index != 2 || cues[1].Text != "second" {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParseSRTRejectsMalformed(t *testing.T) {
	inputs := []string{
		"just some words",
		"1\nnot a timing line\ntext",
		"1\n00:00:01,000 --> soon\ntext",
		"1",
		"1\n00:61:00,000 --> 00:62:00,000\ntext",
	}
	for _, input := range inputs {
		if _, err := ParseSRT(input); err == nil {
			t.Errorf("ParseSRT(%q) should fail", input)
		}
	}
}

func TestParseSRTEmptyContent(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \r\n"} {
		cues, err := ParseSRT(input)
		if err != nil {
			t.Fatalf("ParseSRT(%q): %v", input, err)
		}
		if len(cues) != 0 {
			t.Fatalf("ParseSRT(%q) returned %d cues", input, len(cues))
		}
	}
}

func TestFormatSRTRoundTrip(t *testing.T) {
	cues, err := ParseSRT(sampleSRT)
	if err != nil {
		t.Fatal(err)
	}
	cues[0].Text = "你好。"
	formatted := FormatSRT(cues)

	again, err := ParseSRT(formatted)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(again) != len(cues) {
		t.Fatalf("cue count changed: %d -> %d", len(cues), len(again))
	}
	for i := range cues {
		if again[i].Index != cues[i].Index || again[i].Start != cues[i].Start || again[i].End != cues[i].End {
			t.Fatalf("cue %d timing changed: %+v -> %+v", i, cues[i], again[i])
		}
		if again[i].Text != cues[i].Text {
			t.Fatalf("cue %d text changed: %q -> %q", i, cues[i].Text, again[i].Text)
		}
	}
	if !strings.Contains(formatted, "00:01:05,250 --> 01:00:00,001") {
		t.Fatalf("timecode not preserved:\n%s", formatted)
	}
}

func TestFormatSRTDropsBlankLinesInsideCue(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: time.Second, End: 2 * time.Second, Text: "a\n\nb"},
		{Index: 2, Start: 2 * time.Second, End: 3 * time.Second, Text: "c\r\n  \r\nd\r"},
	}
	again, err := ParseSRT(FormatSRT(cues))
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(again) != 2 || again[0].Text != "a\nb" || again[1].Text != "c\nd" || again[1].Index != 2 {
		t.Fatalf("unexpected cues: %+v", again)
	}
}

func TestNormalizeCueText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"one", "one"},
		{"one\n\ntwo", "one\ntwo"},
		{"one\r\ntwo\r", "one\ntwo"},
		{"\n \t\n", ""},
		{"trailing  \nspace", "trailing\nspace"},
	}
	for _, tt := range tests {
		if got := NormalizeCueText(tt.in); got != tt.want {
			t.Errorf("NormalizeCueText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
