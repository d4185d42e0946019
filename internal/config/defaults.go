package config

const (
	defaultOutputDir              = "downloads"
	defaultLogDir                 = "~/.local/share/vidsub/logs"
	defaultHistoryDB              = "~/.local/share/vidsub/history.db"
	defaultCookieFile             = "youtube_cookies.txt"
	defaultYtdlpBinary            = "yt-dlp"
	defaultMaxHeight              = 1080
	defaultMergeOutputFormat      = "mp4"
	defaultOutputTemplate         = "%(title)s.%(ext)s"
	defaultRetries                = 10
	defaultFragmentRetries        = 10
	defaultExtractorRetries       = 3
	defaultRetrySleep             = "linear=1::2"
	defaultProbeTimeoutSeconds    = 120
	defaultTranslationProvider    = "google"
	defaultTranslationBaseURL     = "https://translate.googleapis.com/translate_a/single"
	defaultTranslationTarget      = "zh-CN"
	defaultTranslationSource      = "auto"
	defaultTranslationUnitMillis  = 1000
	defaultTranslationTimeout     = 15
	defaultTranslationRPS         = 1
	defaultFFmpegBinary           = "ffmpeg"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultPreferredImpersonation = "chrome110"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			HistoryDB:  defaultHistoryDB,
			CookieFile: defaultCookieFile,
		},
		Download: Download{
			YtdlpBinary:            defaultYtdlpBinary,
			MaxHeight:              defaultMaxHeight,
			MergeOutputFormat:      defaultMergeOutputFormat,
			OutputTemplate:         defaultOutputTemplate,
			Retries:                defaultRetries,
			FragmentRetries:        defaultFragmentRetries,
			ExtractorRetries:       defaultExtractorRetries,
			RetrySleep:             defaultRetrySleep,
			EmbedSubtitles:         true,
			EmbedMetadata:          true,
			Impersonate:            true,
			PreferredImpersonation: []string{defaultPreferredImpersonation},
			ProbeTimeoutSeconds:    defaultProbeTimeoutSeconds,
		},
		Subtitles: Subtitles{
			TargetLanguages: []string{"zh-Hans", "zh-Hant", "zh"},
			SourceLanguages: []string{"en"},
		},
		Translation: Translation{
			Provider:          defaultTranslationProvider,
			BaseURL:           defaultTranslationBaseURL,
			TargetLanguage:    defaultTranslationTarget,
			SourceLanguage:    defaultTranslationSource,
			UnitMillis:        defaultTranslationUnitMillis,
			TimeoutSeconds:    defaultTranslationTimeout,
			RequestsPerSecond: defaultTranslationRPS,
		},
		Remux: Remux{
			FFmpegBinary: defaultFFmpegBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
