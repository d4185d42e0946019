package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	HistoryDB  string `toml:"history_db"`
	CookieFile string `toml:"cookie_file"`
}

// Download contains the yt-dlp invocation settings.
type Download struct {
	YtdlpBinary            string   `toml:"ytdlp_binary"`
	MaxHeight              int      `toml:"max_height"`
	Format                 string   `toml:"format"`
	MergeOutputFormat      string   `toml:"merge_output_format"`
	OutputTemplate         string   `toml:"output_template"`
	Retries                int      `toml:"retries"`
	FragmentRetries        int      `toml:"fragment_retries"`
	ExtractorRetries       int      `toml:"extractor_retries"`
	RetrySleep             string   `toml:"retry_sleep"`
	EmbedSubtitles         bool     `toml:"embed_subtitles"`
	EmbedMetadata          bool     `toml:"embed_metadata"`
	Impersonate            bool     `toml:"impersonate"`
	PreferredImpersonation []string `toml:"preferred_impersonation"`
	ProbeTimeoutSeconds    int      `toml:"probe_timeout_seconds"`
	DownloadTimeoutSeconds int      `toml:"download_timeout_seconds"`
}

// Subtitles contains the caption selection settings.
type Subtitles struct {
	// TargetLanguages is the target family in preference order; the first
	// entry names the file created when no target track exists.
	TargetLanguages []string `toml:"target_languages"`
	// SourceLanguages is the fallback family used as translation input.
	SourceLanguages   []string `toml:"source_languages"`
	TranslateFallback bool     `toml:"translate_fallback"`
}

// Translation contains the machine-translation backend settings.
type Translation struct {
	Provider          string  `toml:"provider"`
	BaseURL           string  `toml:"base_url"`
	TargetLanguage    string  `toml:"target_language"`
	SourceLanguage    string  `toml:"source_language"`
	UnitMillis        int     `toml:"unit_millis"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Remux contains the post-download embedding tool settings.
type Remux struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidsub.
//
// Configuration sections by subsystem:
//   - Paths: output, log, history, and cookie file locations
//   - Download: yt-dlp format, retry, impersonation, and embed settings
//   - Subtitles: target/source language families and the translation toggle
//   - Translation: translation backend endpoint, language, and pacing
//   - Remux: ffmpeg location for embedding translated captions
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Download    Download    `toml:"download"`
	Subtitles   Subtitles   `toml:"subtitles"`
	Translation Translation `toml:"translation"`
	Remux       Remux       `toml:"remux"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vidsub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidsub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir}
	if c.Paths.HistoryDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TranslationUnit is the base time unit for translation backoff and pacing.
func (c *Config) TranslationUnit() time.Duration {
	if c.Translation.UnitMillis <= 0 {
		return time.Second
	}
	return time.Duration(c.Translation.UnitMillis) * time.Millisecond
}

// TranslationTimeout is the per-request timeout for the translation backend.
func (c *Config) TranslationTimeout() time.Duration {
	return time.Duration(c.Translation.TimeoutSeconds) * time.Second
}

// CookieFileIfPresent returns the configured cookie file when it exists on disk.
func (c *Config) CookieFileIfPresent() string {
	path := strings.TrimSpace(c.Paths.CookieFile)
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
