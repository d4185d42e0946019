package ytdlp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"vidsub/internal/services"
)

type fakeExecutor struct {
	calls  [][]string
	stdout []string
	stderr []string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, _ string, args []string, onStdout, onStderr func(string)) error {
	f.calls = append(f.calls, args)
	for _, line := range f.stdout {
		onStdout(line)
	}
	for _, line := range f.stderr {
		onStderr(line)
	}
	return f.err
}

func newTestClient(t *testing.T, exec *fakeExecutor) *Client {
	t.Helper()
	client, err := New("yt-dlp", 0, 0, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", 0, 0); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestImpersonateTargets(t *testing.T) {
	exec := &fakeExecutor{stdout: []string{
		"[info] Available impersonate targets",
		"Client      OS           Source",
		"---------------------------------------",
		"Chrome-124  Macos-14     curl_cffi",
		"Chrome-110  Windows-10   curl_cffi",
		"Safari-15.3 Macos-11     curl_cffi (unavailable)",
	}}
	targets, err := newTestClient(t, exec).ImpersonateTargets(context.Background())
	if err != nil {
		t.Fatalf("ImpersonateTargets: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %+v", targets)
	}
	if targets[2].Available {
		t.Fatal("safari should be unavailable")
	}
	if got := PickImpersonation(targets, []string{"chrome110"}); got != "chrome-110" {
		t.Fatalf("preferred pick = %q", got)
	}
	if got := PickImpersonation(targets, []string{"edge101"}); got != "chrome-124" {
		t.Fatalf("fallback pick = %q", got)
	}
	if got := PickImpersonation(targets[2:], nil); got != "" {
		t.Fatalf("unavailable-only pick = %q", got)
	}
}

func TestProbe(t *testing.T) {
	exec := &fakeExecutor{stdout: []string{`{"id":"dQw4w9WgXcQ","title":"Talk","duration":754.5,` +
		`"subtitles":{"en":[{"ext":"vtt"}],"live_chat":[{}]},` +
		`"automatic_captions":{"zh-Hans":[],"en":[]},` +
		`"_filename":"/out/Talk.webm"}`}}
	client := newTestClient(t, exec)
	info, err := client.Probe(context.Background(), "https://youtu.be/dQw4w9WgXcQ", Options{OutputDir: "/out"})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Title != "Talk" || info.Duration != 754500*time.Millisecond {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Filename != "/out/Talk.webm" {
		t.Fatalf("filename = %q", info.Filename)
	}
	if got := strings.Join(info.CaptionLanguages(), ","); got != "en,zh-Hans" {
		t.Fatalf("languages = %q", got)
	}
	args := exec.calls[0]
	if !slices.Contains(args, "--skip-download") || args[len(args)-1] != "https://youtu.be/dQw4w9WgXcQ" {
		t.Fatalf("unexpected probe args: %v", args)
	}
}

func TestProbeInvalidJSON(t *testing.T) {
	exec := &fakeExecutor{stdout: []string{"not json"}}
	if _, err := newTestClient(t, exec).Probe(context.Background(), "x", Options{}); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("err = %v", err)
	}
}

func TestDownloadStreamsEvents(t *testing.T) {
	exec := &fakeExecutor{
		stdout: []string{
			"vidsub-dl downloading 1048576 NA 4194304 524288.0 6",
			"vidsub-dl finished 4194304 4194304 NA NA NA",
			"vidsub-pp started Merger",
			"vidsub-file /out/Talk [4K].mp4",
		},
		stderr: []string{"WARNING: video is age restricted"},
	}
	var events []Event
	result, err := newTestClient(t, exec).Download(context.Background(), "id", Options{OutputDir: "/out"}, func(ev Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if result.MediaPath != "/out/Talk [4K].mp4" {
		t.Fatalf("media path = %q", result.MediaPath)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %+v", events)
	}
	first := events[0]
	if first.Kind != EventDownload || first.Percent() != 25 || first.Speed != 524288 || first.ETA != 6*time.Second {
		t.Fatalf("unexpected first event %+v", first)
	}
	if events[1].ETA >= 0 {
		t.Fatalf("unknown ETA should be negative, got %s", events[1].ETA)
	}
	if events[2].Kind != EventPostProcess || events[2].PostProcessor != "Merger" {
		t.Fatalf("unexpected post-process event %+v", events[2])
	}
	if events[3].Kind != EventWarning || len(result.Warnings) != 1 {
		t.Fatalf("warning not surfaced: %+v %v", events[3], result.Warnings)
	}
}

func TestDownloadRateLimited(t *testing.T) {
	exec := &fakeExecutor{
		stderr: []string{"ERROR: [youtube] abc: Unable to download webpage: HTTP Error 429: Too Many Requests"},
		err:    errors.New("wait command: exit status 1"),
	}
	_, err := newTestClient(t, exec).Download(context.Background(), "abc", Options{}, nil)
	if !errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if services.Hint(err) != services.RateLimitHint {
		t.Fatal("rate-limited error should carry the hint")
	}
}

func TestDownloadGenericFailure(t *testing.T) {
	exec := &fakeExecutor{
		stderr: []string{"ERROR: [youtube] abc: Video unavailable"},
		err:    errors.New("wait command: exit status 1"),
	}
	_, err := newTestClient(t, exec).Download(context.Background(), "abc", Options{}, nil)
	if !errors.Is(err, services.ErrExternalTool) || errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("unexpected classification: %v", err)
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Fatalf("reason missing from error: %v", err)
	}
}

func TestDownloadWithoutMediaPath(t *testing.T) {
	if _, err := newTestClient(t, &fakeExecutor{}).Download(context.Background(), "abc", Options{}, nil); err == nil {
		t.Fatal("expected error when no file is reported")
	}
}

func TestDownloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExecutor{err: errors.New("signal: killed")}
	if _, err := newTestClient(t, exec).Download(ctx, "abc", Options{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestVersion(t *testing.T) {
	exec := &fakeExecutor{stdout: []string{"2025.06.30"}}
	version, err := newTestClient(t, exec).Version(context.Background())
	if err != nil || version != "2025.06.30" {
		t.Fatalf("Version = %q, %v", version, err)
	}
}
