package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidsub/internal/config"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected no config file, got %s", path)
	}
	if want := filepath.Join(dir, ".config", "vidsub", "config.toml"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "downloads") {
		t.Fatalf("output dir = %q", cfg.Paths.OutputDir)
	}
	if cfg.Download.MaxHeight != 1080 || cfg.Download.MergeOutputFormat != "mp4" {
		t.Fatalf("unexpected download defaults: %+v", cfg.Download)
	}
	if got := strings.Join(cfg.Subtitles.TargetLanguages, ","); got != "zh-Hans,zh-Hant,zh" {
		t.Fatalf("target languages = %q", got)
	}
	if cfg.TranslationUnit().Seconds() != 1 {
		t.Fatalf("unexpected unit %s", cfg.TranslationUnit())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "custom.toml")
	data := `
[paths]
output_dir = "~/videos"

[subtitles]
target_languages = ["zh-Hant", " zh-Hant ", "zh"]
source_languages = ["en", "en-US"]

[translation]
unit_millis = 10

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "videos") {
		t.Fatalf("output dir = %q", cfg.Paths.OutputDir)
	}
	if got := strings.Join(cfg.Subtitles.TargetLanguages, ","); got != "zh-Hant,zh" {
		t.Fatalf("target languages = %q", got)
	}
	if cfg.TranslationUnit().Milliseconds() != 10 {
		t.Fatalf("unit = %s", cfg.TranslationUnit())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[download]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	t.Setenv("VIDSUB_OUTPUT_DIR", filepath.Join(dir, "env-out"))
	t.Setenv("VIDSUB_YTDLP", "/opt/bin/yt-dlp")
	t.Setenv("VIDSUB_TRANSLATE_URL", "http://127.0.0.1:9/translate")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "env-out") {
		t.Fatalf("output dir = %q", cfg.Paths.OutputDir)
	}
	if cfg.Download.YtdlpBinary != "/opt/bin/yt-dlp" {
		t.Fatalf("ytdlp = %q", cfg.Download.YtdlpBinary)
	}
	if cfg.Translation.BaseURL != "http://127.0.0.1:9/translate" {
		t.Fatalf("base url = %q", cfg.Translation.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"no targets", func(c *config.Config) { c.Subtitles.TargetLanguages = nil }, "target_languages"},
		{"no sources", func(c *config.Config) { c.Subtitles.SourceLanguages = nil }, "source_languages"},
		{"overlap", func(c *config.Config) { c.Subtitles.SourceLanguages = []string{"zh"} }, "both target and source"},
		{"provider", func(c *config.Config) { c.Translation.Provider = "deepl" }, "translation.provider"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"template", func(c *config.Config) { c.Download.OutputTemplate = "%(title)s" }, "output_template"},
		{"retries", func(c *config.Config) { c.Download.Retries = -1 }, "retry counts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}

func TestCookieFileIfPresent(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CookieFile = filepath.Join(dir, "cookies.txt")
	if got := cfg.CookieFileIfPresent(); got != "" {
		t.Fatalf("expected empty cookie path, got %q", got)
	}
	if err := os.WriteFile(cfg.Paths.CookieFile, []byte("# Netscape"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := cfg.CookieFileIfPresent(); got != cfg.Paths.CookieFile {
		t.Fatalf("cookie path = %q", got)
	}
}
