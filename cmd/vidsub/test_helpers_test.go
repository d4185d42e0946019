package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"vidsub/internal/deps"
	"vidsub/internal/services/ytdlp"
	"vidsub/internal/session"
	"vidsub/internal/subtitles"
)

const englishCaption = "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:02,000 --> 00:00:03,000\nWorld\n"

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	engine     *fakeEngine
	translator *fakeTranslator
}

func setupCLITestEnv(t *testing.T, extraConfig string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Chdir(base)

	outputDir := filepath.Join(base, "out")
	configPath := filepath.Join(base, "vidsub-test.toml")
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
history_db = %q
cookie_file = ""

[translation]
unit_millis = 1
requests_per_second = 0
%s
`, outputDir, filepath.Join(base, "logs"), filepath.Join(base, "history.db"), extraConfig)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		outputDir:  outputDir,
		engine:     &fakeEngine{media: "Talk.mp4", info: ytdlp.Info{Title: "Talk", Subtitles: []string{"en"}}},
		translator: &fakeTranslator{},
	}
}

// runCLI executes the root command with the fake engine and translator wired in.
func (e *cliTestEnv) runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(
		withEngine(e.engine),
		withTranslator(e.translator),
		withSessionOptions(
			session.WithEmbedder(noopEmbedder{}),
			session.WithFFmpegCheck(func() deps.Status { return deps.Status{Name: "FFmpeg", Available: true} }),
		),
	)
	var stdout syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeEngine struct {
	info        ytdlp.Info
	media       string
	captions    map[string]string
	downloadErr error

	mu        sync.Mutex
	downloads int
}

func (f *fakeEngine) ImpersonateTargets(context.Context) ([]ytdlp.ImpersonateTarget, error) {
	return []ytdlp.ImpersonateTarget{{Client: "Chrome-110", Available: true}}, nil
}

func (f *fakeEngine) Probe(context.Context, string, ytdlp.Options) (ytdlp.Info, error) {
	return f.info, nil
}

func (f *fakeEngine) Download(_ context.Context, _ string, opts ytdlp.Options, _ func(ytdlp.Event)) (ytdlp.Result, error) {
	f.mu.Lock()
	f.downloads++
	f.mu.Unlock()
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

func (f *fakeEngine) downloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads
}

type fakeTranslator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return "译 " + text, nil
}

func (f *fakeTranslator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type noopEmbedder struct{}

func (noopEmbedder) Embed(context.Context, subtitles.EmbedRequest) error { return nil }

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
