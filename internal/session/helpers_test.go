package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"vidsub/internal/config"
	"vidsub/internal/deps"
	"vidsub/internal/history"
	"vidsub/internal/services/ytdlp"
	"vidsub/internal/status"
	"vidsub/internal/subtitles"
	"vidsub/internal/testsupport"
)

const englishCaption = "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:02,000 --> 00:00:03,000\nGood morning\n\n3\n00:00:03,000 --> 00:00:04,000\nBye\n"

const blankCaption = "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:02,000 --> 00:00:03,000\n\n3\n00:00:03,000 --> 00:00:04,000\n\n"

// fakeEngine writes the configured files into the output directory when
// Download is called.
type fakeEngine struct {
	targets     []ytdlp.ImpersonateTarget
	targetsErr  error
	info        ytdlp.Info
	probeErr    error
	media       string
	captions    map[string]string
	events      []ytdlp.Event
	downloadErr error

	mu        sync.Mutex
	opts      ytdlp.Options
	downloads int
}

func (f *fakeEngine) ImpersonateTargets(context.Context) ([]ytdlp.ImpersonateTarget, error) {
	return f.targets, f.targetsErr
}

func (f *fakeEngine) Probe(_ context.Context, _ string, opts ytdlp.Options) (ytdlp.Info, error) {
	f.mu.Lock()
	f.opts = opts
	f.mu.Unlock()
	return f.info, f.probeErr
}

func (f *fakeEngine) Download(_ context.Context, _ string, opts ytdlp.Options, observer func(ytdlp.Event)) (ytdlp.Result, error) {
	f.mu.Lock()
	f.downloads++
	f.opts = opts
	f.mu.Unlock()
	for _, ev := range f.events {
		observer(ev)
	}
	if f.downloadErr != nil {
		return ytdlp.Result{}, f.downloadErr
	}
	media := filepath.Join(opts.OutputDir, f.media)
	if err := os.WriteFile(media, []byte("media"), 0o644); err != nil {
		return ytdlp.Result{}, err
	}
	for name, content := range f.captions {
		if err := os.WriteFile(filepath.Join(opts.OutputDir, name), []byte(content), 0o644); err != nil {
			return ytdlp.Result{}, err
		}
	}
	return ytdlp.Result{MediaPath: media}, nil
}

type fakeTranslator struct {
	mu    sync.Mutex
	calls []string
	// onCall runs before each answer; tests use it to cancel mid-file.
	onCall func()
}

func (f *fakeTranslator) Translate(ctx context.Context, text, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if f.onCall != nil {
		f.onCall()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "[zh] " + text, nil
}

func (f *fakeTranslator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeEmbedder struct {
	requests []subtitles.EmbedRequest
	err      error
}

func (f *fakeEmbedder) Embed(_ context.Context, req subtitles.EmbedRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type recordingReporter struct {
	mu     sync.Mutex
	events []status.Event
}

func (r *recordingReporter) Report(e status.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingReporter) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, status.Format(e))
	}
	return out
}

func (r *recordingReporter) results() []status.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []status.Event
	for _, e := range r.events {
		if e.Kind == status.KindResult {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingReporter) contains(substr string) bool {
	for _, line := range r.lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type memoryHistory struct {
	mu   sync.Mutex
	runs []history.Run
}

func (m *memoryHistory) Record(_ context.Context, run history.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

type harness struct {
	cfg        *config.Config
	dir        string
	engine     *fakeEngine
	translator *fakeTranslator
	embedder   *fakeEmbedder
	reporter   *recordingReporter
	history    *memoryHistory
	ffmpeg     bool
}

func newHarness(t *testing.T, engine *fakeEngine) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithTranslateFallback(true))
	return &harness{
		cfg:        cfg,
		dir:        cfg.Paths.OutputDir,
		engine:     engine,
		translator: &fakeTranslator{},
		embedder:   &fakeEmbedder{},
		reporter:   &recordingReporter{},
		history:    &memoryHistory{},
		ffmpeg:     true,
	}
}

func (h *harness) controller(t *testing.T) *Controller {
	t.Helper()
	ids := 0
	c, err := New(h.cfg, h.engine,
		WithTranslator(h.translator),
		WithEmbedder(h.embedder),
		WithReporter(h.reporter),
		WithHistory(h.history),
		WithSleeper(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
		WithFFmpegCheck(func() deps.Status {
			if h.ffmpeg {
				return deps.Status{Name: "FFmpeg", Available: true}
			}
			return deps.Status{Name: "FFmpeg", Detail: `binary "ffmpeg" not found`}
		}),
		WithRunIDs(func() string {
			ids++
			return "run-" + string(rune('0'+ids))
		}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	return testsupport.ReadFile(t, path)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	testsupport.WriteFile(t, path, content)
}
