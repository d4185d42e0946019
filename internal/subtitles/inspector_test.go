package subtitles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vidsub/internal/services"
)

func TestInspectorStates(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content *string
		want    State
	}{
		{"missing", nil, StateAbsent},
		{"zero bytes", ptr(""), StateEmpty},
		{"timecodes only", ptr(emptyCaption), StateEmpty},
		{"text", ptr(englishCaption), StateNonEmpty},
		{"one non-blank among blanks", ptr(emptyCaption + "\n3\n00:00:04,000 --> 00:00:05,000\n.\n"), StateNonEmpty},
		{"garbage", ptr("this is not a caption file"), StateUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".srt")
			if tt.content != nil {
				writeFile(t, dir, tt.name+".srt", *tt.content)
			}
			state, err := NewInspector(nil).Inspect(path)
			if state != tt.want {
				t.Fatalf("Inspect = %s, want %s (err=%v)", state, tt.want, err)
			}
			if tt.want == StateUnreadable {
				if !errors.Is(err, services.ErrParse) {
					t.Fatalf("expected ErrParse, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestInspectorCachesNonEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "video.en.srt", englishCaption)
	inspector := NewInspector(nil)

	if state, _ := inspector.Inspect(path); state != StateNonEmpty {
		t.Fatalf("first inspect = %s", state)
	}
	if err := os.WriteFile(path, []byte(emptyCaption), 0o644); err != nil {
		t.Fatal(err)
	}
	if state, _ := inspector.Inspect(path); state != StateNonEmpty {
		t.Fatalf("non-empty verdict should be cached, got %s", state)
	}
	if state, _ := NewInspector(nil).Inspect(path); state != StateEmpty {
		t.Fatalf("a fresh run should re-inspect, got %s", state)
	}
}

func TestInspectorDoesNotCacheEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "video.zh-Hans.srt", emptyCaption)
	inspector := NewInspector(nil)
	if state, _ := inspector.Inspect(path); state != StateEmpty {
		t.Fatalf("first inspect = %s", state)
	}
	writeFile(t, dir, "video.zh-Hans.srt", englishCaption)
	if state, _ := inspector.Inspect(path); state != StateNonEmpty {
		t.Fatalf("empty verdict must be recomputed, got %s", state)
	}
}

func TestInspectorNeverPanicsOnArbitraryBytes(t *testing.T) {
	dir := t.TempDir()
	inputs := [][]byte{
		{0x00, 0x01, 0x02, 0x03},
		{0xff, 0xfe, 0x00},
		{0xfe, 0xff},
		{0xef, 0xbb, 0xbf},
		[]byte("1\n-->\n"),
		[]byte("-->"),
		[]byte("\x80\x81\x82 --> \x83"),
	}
	for i, data := range inputs {
		path := filepath.Join(dir, "bytes.srt")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		state, err := NewInspector(nil).Inspect(path)
		if state == StateUnreadable && err == nil {
			t.Fatalf("input %d: unreadable without error", i)
		}
		if state == StateUnknown || state == StateAbsent {
			t.Fatalf("input %d: unexpected state %s", i, state)
		}
	}
}

func TestInspectTracksFillsStates(t *testing.T) {
	dir := t.TempDir()
	tracks := []Track{
		{Language: "en", Path: writeFile(t, dir, "v.en.srt", englishCaption)},
		{Language: "zh-Hans", Path: writeFile(t, dir, "v.zh-Hans.srt", "garbage")},
		{Language: "fr", Path: filepath.Join(dir, "v.fr.srt")},
		{Language: "de", Path: filepath.Join(dir, "v.de.srt"), State: StateEmpty},
	}
	NewInspector(nil).InspectTracks(tracks)
	want := []State{StateNonEmpty, StateUnreadable, StateAbsent, StateEmpty}
	for i, track := range tracks {
		if track.State != want[i] {
			t.Errorf("track %s state = %s, want %s", track.Language, track.State, want[i])
		}
	}
}

func ptr(s string) *string { return &s }
