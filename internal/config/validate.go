package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDownload() error {
	if c.Download.MaxHeight < 0 {
		return errors.New("download.max_height must be >= 0")
	}
	if c.Download.Retries < 0 || c.Download.FragmentRetries < 0 || c.Download.ExtractorRetries < 0 {
		return errors.New("download retry counts must be >= 0")
	}
	if c.Download.ProbeTimeoutSeconds < 0 || c.Download.DownloadTimeoutSeconds < 0 {
		return errors.New("download timeouts must be >= 0")
	}
	if !strings.Contains(c.Download.OutputTemplate, "%(ext)s") {
		return fmt.Errorf("download.output_template %q must contain %%(ext)s", c.Download.OutputTemplate)
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if len(c.Subtitles.TargetLanguages) == 0 {
		return errors.New("subtitles.target_languages must list at least one language")
	}
	if len(c.Subtitles.SourceLanguages) == 0 {
		return errors.New("subtitles.source_languages must list at least one language")
	}
	for _, target := range c.Subtitles.TargetLanguages {
		for _, source := range c.Subtitles.SourceLanguages {
			if strings.EqualFold(target, source) {
				return fmt.Errorf("subtitles: language %q cannot be both target and source", target)
			}
		}
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Provider {
	case "google":
	default:
		return fmt.Errorf("translation.provider: unsupported value %q", c.Translation.Provider)
	}
	if c.Translation.TargetLanguage == "" {
		return errors.New("translation.target_language must be set")
	}
	if c.Translation.UnitMillis < 0 {
		return errors.New("translation.unit_millis must be >= 0")
	}
	if c.Translation.RequestsPerSecond < 0 {
		return errors.New("translation.requests_per_second must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
