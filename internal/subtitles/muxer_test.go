package subtitles

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestMuxerEmbed(t *testing.T) {
	dir := t.TempDir()
	media := writeFile(t, dir, "Talk.mp4", "original")
	srt := writeFile(t, dir, "Talk.zh-Hans.srt", englishCaption)

	var gotName string
	var gotArgs []string
	muxer := NewMuxer("", nil)
	muxer.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("muxed"), 0o644)
	})

	if err := muxer.Embed(context.Background(), EmbedRequest{MediaPath: media, SubtitlePath: srt, Language: "zh-Hans"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("binary = %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-c:s:0 mov_text", "language=zho", "title=Simplified Chinese", "-map 1:0"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if !strings.HasSuffix(gotArgs[len(gotArgs)-1], ".mux-Talk.mp4") {
		t.Fatalf("temp output = %q", gotArgs[len(gotArgs)-1])
	}
	data, _ := os.ReadFile(media)
	if string(data) != "muxed" {
		t.Fatalf("media not replaced: %q", data)
	}
	if _, err := os.Stat(srt); err != nil {
		t.Fatal("sidecar caption should be kept")
	}
}

func TestMuxerEmbedFailureKeepsMedia(t *testing.T) {
	dir := t.TempDir()
	media := writeFile(t, dir, "Talk.mkv", "original")
	srt := writeFile(t, dir, "Talk.zh-Hans.srt", englishCaption)

	muxer := NewMuxer("/opt/ffmpeg", nil)
	muxer.WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		if !slices.Contains(args, "srt") {
			t.Errorf("mkv should use the srt codec: %v", args)
		}
		_ = os.WriteFile(args[len(args)-1], []byte("partial"), 0o644)
		return errors.New("exit status 1")
	})

	if err := muxer.Embed(context.Background(), EmbedRequest{MediaPath: media, SubtitlePath: srt, Language: "zh-Hans"}); err == nil {
		t.Fatal("expected error")
	}
	data, _ := os.ReadFile(media)
	if string(data) != "original" {
		t.Fatalf("media changed: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("temp file left behind (%d entries)", len(entries))
	}
}

func TestMuxerEmbedMissingInputs(t *testing.T) {
	muxer := NewMuxer("", nil)
	if err := muxer.Embed(context.Background(), EmbedRequest{}); err == nil {
		t.Fatal("expected validation error")
	}
	if err := muxer.Embed(context.Background(), EmbedRequest{MediaPath: "/nonexistent.mp4", SubtitlePath: "/nonexistent.srt"}); err == nil {
		t.Fatal("expected not found error")
	}
}
