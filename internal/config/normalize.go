package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownload()
	c.normalizeSubtitles()
	c.normalizeTranslation()
	c.Remux.FFmpegBinary = strings.TrimSpace(c.Remux.FFmpegBinary)
	if c.Remux.FFmpegBinary == "" {
		c.Remux.FFmpegBinary = defaultFFmpegBinary
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("VIDSUB_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if c.Paths.CookieFile, err = expandPath(c.Paths.CookieFile); err != nil {
		return fmt.Errorf("paths.cookie_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeDownload() {
	if value, ok := os.LookupEnv("VIDSUB_YTDLP"); ok && strings.TrimSpace(value) != "" {
		c.Download.YtdlpBinary = value
	}
	c.Download.YtdlpBinary = strings.TrimSpace(c.Download.YtdlpBinary)
	if c.Download.YtdlpBinary == "" {
		c.Download.YtdlpBinary = defaultYtdlpBinary
	}
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	c.Download.MergeOutputFormat = strings.ToLower(strings.TrimSpace(c.Download.MergeOutputFormat))
	if c.Download.MergeOutputFormat == "" {
		c.Download.MergeOutputFormat = defaultMergeOutputFormat
	}
	c.Download.OutputTemplate = strings.TrimSpace(c.Download.OutputTemplate)
	if c.Download.OutputTemplate == "" {
		c.Download.OutputTemplate = defaultOutputTemplate
	}
	c.Download.RetrySleep = strings.TrimSpace(c.Download.RetrySleep)
	c.Download.PreferredImpersonation = lowerList(c.Download.PreferredImpersonation)
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.TargetLanguages = trimList(c.Subtitles.TargetLanguages)
	c.Subtitles.SourceLanguages = trimList(c.Subtitles.SourceLanguages)
}

func (c *Config) normalizeTranslation() {
	if value, ok := os.LookupEnv("VIDSUB_TRANSLATE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Translation.BaseURL = value
	}
	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	if c.Translation.Provider == "" {
		c.Translation.Provider = defaultTranslationProvider
	}
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = defaultTranslationBaseURL
	}
	c.Translation.TargetLanguage = strings.TrimSpace(c.Translation.TargetLanguage)
	c.Translation.SourceLanguage = strings.TrimSpace(c.Translation.SourceLanguage)
	if c.Translation.SourceLanguage == "" {
		c.Translation.SourceLanguage = defaultTranslationSource
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}

func lowerList(values []string) []string {
	out := trimList(values)
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}
