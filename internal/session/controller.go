package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vidsub/internal/config"
	"vidsub/internal/deps"
	"vidsub/internal/history"
	"vidsub/internal/logging"
	"vidsub/internal/services"
	"vidsub/internal/status"
	"vidsub/internal/subtitles"
)

const lockFileName = ".vidsub.lock"

// Controller runs download sessions.
type Controller struct {
	cfg        *config.Config
	engine     Engine
	translator subtitles.Translator
	embedder   Embedder
	reporter   Reporter
	history    Recorder
	logger     *slog.Logger
	sleeper    subtitles.Sleeper
	ffmpeg     func() deps.Status
	newRunID   func() string
	now        func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithTranslator sets the translation backend used for the fallback.
func WithTranslator(t subtitles.Translator) Option {
	return func(c *Controller) { c.translator = t }
}

// WithEmbedder sets the tool that muxes translated captions into the media.
func WithEmbedder(e Embedder) Option {
	return func(c *Controller) { c.embedder = e }
}

// WithReporter sets the status sink.
func WithReporter(r Reporter) Option {
	return func(c *Controller) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithHistory records every Result in the given store.
func WithHistory(r Recorder) Option {
	return func(c *Controller) { c.history = r }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSleeper replaces the wait used for translation pacing and backoff.
func WithSleeper(s subtitles.Sleeper) Option {
	return func(c *Controller) { c.sleeper = s }
}

// WithFFmpegCheck replaces the ffmpeg presence check.
func WithFFmpegCheck(fn func() deps.Status) Option {
	return func(c *Controller) {
		if fn != nil {
			c.ffmpeg = fn
		}
	}
}

// WithRunIDs replaces the run identifier generator.
func WithRunIDs(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newRunID = fn
		}
	}
}

// New constructs a Controller.
func New(cfg *config.Config, engine Engine, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "session", "init", "config is required", nil)
	}
	if engine == nil {
		return nil, services.Wrap(services.ErrConfiguration, "session", "init", "download engine is required", nil)
	}
	c := &Controller{
		cfg:      cfg,
		engine:   engine,
		reporter: discardReporter{},
		logger:   logging.NewNop(),
		newRunID: uuid.NewString,
		now:      time.Now,
	}
	c.ffmpeg = func() deps.Status {
		return deps.CheckFFmpeg(cfg.Remux.FFmpegBinary, cfg.Download.YtdlpBinary)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "session")
	return c, nil
}

// run holds the per-request state; nothing in it outlives one call.
type run struct {
	id      string
	started time.Time
	ref     string
	dir     string
	title   string
	logger  *slog.Logger
	// phase names the post-download step in progress, for cancel reasons.
	phase  string
	result Result
}

// Run executes the full pipeline for req. It always returns a Result; errors
// are folded into Result.Reason and Result.Hint.
func (c *Controller) Run(ctx context.Context, req Request) Result {
	r := c.begin(ctx, req.Reference, req.OutputDir)
	ctx = services.WithReference(services.WithRunID(ctx, r.id), r.ref)
	r.logger = logging.WithContext(ctx, c.logger)

	if r.ref == "" {
		return c.finish(ctx, r, services.Wrap(services.ErrValidation, "session", "request", "reference is required", nil))
	}
	unlock, err := c.prepareDir(r.dir)
	if err != nil {
		return c.finish(ctx, r, err)
	}
	defer unlock()

	r.logger.Info("session started",
		logging.String(logging.FieldEventType, "session_start"),
		logging.String("output_dir", r.dir),
		logging.Bool("embed", req.EmbedSubtitles),
		logging.Bool("translate", req.TranslateFallback),
	)

	opts := c.downloadOptions(r.dir, req)
	c.preflightImpersonation(services.WithStage(ctx, "impersonate"), r, &opts)
	if err := ctx.Err(); err != nil {
		return c.finish(ctx, r, err)
	}

	info, err := c.engine.Probe(services.WithStage(ctx, "probe"), r.ref, opts)
	if err != nil {
		return c.finish(ctx, r, err)
	}
	r.title = info.Title
	c.reportProbe(r, info)
	if err := ctx.Err(); err != nil {
		return c.finish(ctx, r, err)
	}

	downloaded, err := c.engine.Download(services.WithStage(ctx, "download"), r.ref, opts, c.forwardEngineEvents(r))
	if err != nil {
		return c.finish(ctx, r, err)
	}
	r.result.MediaPath = downloaded.MediaPath
	c.reporter.Report(status.Info("saved " + filepath.Base(downloaded.MediaPath)))

	ffmpegReady := c.checkFFmpeg(r)

	base := subtitles.BasePath(downloaded.MediaPath)
	tracks, err := subtitles.DiscoverTracks(base)
	if err != nil {
		return c.finish(ctx, r, err)
	}
	subtitles.AssignOrigins(tracks, info.Subtitles, info.AutoCaptions)
	r.result.CaptionPaths = trackPaths(tracks)

	if !req.TranslateFallback {
		r.result.Reason = "translation fallback disabled"
		return c.finish(ctx, r, nil)
	}

	r.phase = "translation"
	outcome, err := c.localize(services.WithStage(ctx, "translate"), r, base, tracks, false)
	if err != nil {
		return c.finish(ctx, r, err)
	}
	r.phase = ""

	if outcome.created && req.EmbedSubtitles {
		if ffmpegReady {
			r.phase = "embedding"
			c.embed(services.WithStage(ctx, "embed"), r, downloaded.MediaPath, outcome.path)
		} else {
			c.reporter.Report(status.Warn("ffmpeg not found; translated captions were not embedded"))
		}
	}
	if err := ctx.Err(); err != nil {
		return c.finish(ctx, r, err)
	}
	return c.finish(ctx, r, nil)
}

func (c *Controller) begin(ctx context.Context, reference, dir string) *run {
	id := c.newRunID()
	if strings.TrimSpace(dir) == "" {
		dir = c.cfg.Paths.OutputDir
	}
	if expanded, err := config.ExpandPath(dir); err == nil {
		dir = expanded
	}
	return &run{
		id:      id,
		started: c.now(),
		ref:     strings.TrimSpace(reference),
		dir:     dir,
		logger:  logging.WithContext(ctx, c.logger),
		result:  Result{RunID: id},
	}
}

// prepareDir creates dir and takes the per-directory run lock.
func (c *Controller) prepareDir(dir string) (func(), error) {
	if strings.TrimSpace(dir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "session", "output dir", "output directory is not configured", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output directory lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrLocked, "session", "lock", "another vidsub run is using "+dir, nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

// finish turns err into the Result, reports it, and records it. It is the
// only place a Result leaves the controller.
func (c *Controller) finish(ctx context.Context, r *run, err error) Result {
	r.result.Title = r.title
	if err != nil {
		r.result.Success = false
		switch {
		case errors.Is(err, context.Canceled):
			r.result.Cancelled = true
			r.result.Reason = "cancelled"
			if r.phase != "" {
				r.result.Reason += " during " + r.phase
			}
		default:
			r.result.Reason = services.FailureReason(err)
			r.result.Hint = services.Hint(err)
		}
		if r.result.MediaPath != "" {
			r.result.Reason = "media downloaded but " + r.result.Reason
		}
		logging.ErrorWithContext(r.logger, "session failed", "session_failed",
			logging.Error(err),
			logging.String("reason", r.result.Reason),
			logging.String(logging.FieldErrorHint, orDefault(r.result.Hint, "check logs for details")),
		)
		c.reporter.Report(status.Result(false, r.result.Reason, r.result.Hint))
	} else {
		r.result.Success = true
		message := r.result.Reason
		if r.result.MediaPath != "" {
			message = filepath.Base(r.result.MediaPath)
			if r.result.Reason != "" {
				message += " (" + r.result.Reason + ")"
			}
		}
		r.logger.Info("session finished",
			logging.String(logging.FieldEventType, "session_complete"),
			logging.String("media_path", r.result.MediaPath),
			logging.String("decision", r.result.Decision.String()),
			logging.Int("captions", len(r.result.CaptionPaths)),
		)
		c.reporter.Report(status.Result(true, message, ""))
	}
	c.record(ctx, r)
	return r.result
}

func (c *Controller) record(ctx context.Context, r *run) {
	if c.history == nil {
		return
	}
	entry := history.Run{
		RunID:        r.id,
		Reference:    r.ref,
		Title:        r.title,
		OutputDir:    r.dir,
		MediaPath:    r.result.MediaPath,
		CaptionPaths: r.result.CaptionPaths,
		Success:      r.result.Success,
		Reason:       r.result.Reason,
		Decision:     r.result.Decision.String(),
		StartedAt:    r.started,
		FinishedAt:   c.now(),
	}
	// History must survive a cancelled run.
	if err := c.history.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(r.logger, "failed to record run history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run is missing from vidsub history"),
		)
	}
}

func (c *Controller) checkFFmpeg(r *run) bool {
	st := c.ffmpeg()
	if st.Available {
		return true
	}
	logging.WarnWithContext(r.logger, "ffmpeg not found", "ffmpeg_missing",
		logging.String("detail", st.Detail),
		logging.String(logging.FieldErrorHint, "install ffmpeg or set remux.ffmpeg_binary"),
		logging.String(logging.FieldImpact, "streams may not be merged and captions cannot be embedded"),
	)
	c.reporter.Report(status.Warn("ffmpeg not found (" + st.Detail + "); merging and embedding may not work"))
	return false
}

func (c *Controller) embed(ctx context.Context, r *run, mediaPath, captionPath string) {
	if c.embedder == nil {
		return
	}
	c.reporter.Report(status.Info("embedding " + filepath.Base(captionPath)))
	err := c.embedder.Embed(ctx, subtitles.EmbedRequest{
		MediaPath:    mediaPath,
		SubtitlePath: captionPath,
		Language:     c.primaryTarget(),
	})
	if err != nil {
		logging.WarnWithContext(r.logger, "caption embed failed", "embed_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "translated captions remain available as a sidecar file"),
		)
		c.reporter.Report(status.Warn("could not embed translated captions: " + err.Error()))
		return
	}
	c.reporter.Report(status.Info("embedded translated captions"))
}

func (c *Controller) primaryTarget() string {
	if len(c.cfg.Subtitles.TargetLanguages) == 0 {
		return ""
	}
	return c.cfg.Subtitles.TargetLanguages[0]
}

func trackPaths(tracks []subtitles.Track) []string {
	paths := make([]string, 0, len(tracks))
	for _, t := range tracks {
		paths = append(paths, t.Path)
	}
	return paths
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
