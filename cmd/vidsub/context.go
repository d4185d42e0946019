package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vidsub/internal/config"
	"vidsub/internal/history"
	"vidsub/internal/logging"
	"vidsub/internal/services/googletranslate"
	"vidsub/internal/services/ytdlp"
	"vidsub/internal/session"
	"vidsub/internal/status"
	"vidsub/internal/subtitles"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	// Overrides used by tests; nil means the real collaborator.
	engine      session.Engine
	translator  subtitles.Translator
	sessionOpts []session.Option
}

type contextOption func(*commandContext)

func withEngine(e session.Engine) contextOption {
	return func(c *commandContext) { c.engine = e }
}

func withTranslator(t subtitles.Translator) contextOption {
	return func(c *commandContext) { c.translator = t }
}

func withSessionOptions(opts ...session.Option) contextOption {
	return func(c *commandContext) { c.sessionOpts = append(c.sessionOpts, opts...) }
}

func newCommandContext(configFlag *string, opts ...contextOption) *commandContext {
	c := &commandContext{configFlag: configFlag}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// sessionHandle bundles a controller with the resources it holds open.
type sessionHandle struct {
	controller *session.Controller
	reporter   *status.Reporter
	store      *history.Store
}

func (h *sessionHandle) Close() {
	h.reporter.Close()
	if h.store != nil {
		_ = h.store.Close()
	}
}

func (c *commandContext) openSession(cmd *cobra.Command) (*sessionHandle, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.loggerValue()

	engine := c.engine
	if engine == nil {
		client, err := ytdlp.New(cfg.Download.YtdlpBinary, cfg.Download.ProbeTimeoutSeconds, cfg.Download.DownloadTimeoutSeconds)
		if err != nil {
			return nil, err
		}
		engine = client
	}
	translator := c.translator
	if translator == nil {
		translator = googletranslate.NewClient(googletranslate.Config{
			BaseURL:           cfg.Translation.BaseURL,
			SourceLanguage:    cfg.Translation.SourceLanguage,
			TimeoutSeconds:    cfg.Translation.TimeoutSeconds,
			RequestsPerSecond: cfg.Translation.RequestsPerSecond,
		})
	}

	handle := &sessionHandle{reporter: status.NewReporter(cmd.OutOrStdout())}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithReporter(handle.reporter),
		session.WithTranslator(translator),
		session.WithEmbedder(subtitles.NewMuxer(cfg.Remux.FFmpegBinary, logger)),
	}
	if cfg.Paths.HistoryDB != "" {
		store, err := history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			logging.WarnWithContext(logger, "history store unavailable", "history_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in vidsub history"),
			)
		} else {
			handle.store = store
			opts = append(opts, session.WithHistory(store))
		}
	}
	opts = append(opts, c.sessionOpts...)

	controller, err := session.New(cfg, engine, opts...)
	if err != nil {
		handle.Close()
		return nil, err
	}
	handle.controller = controller
	return handle, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
