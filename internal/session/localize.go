package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"vidsub/internal/config"
	"vidsub/internal/logging"
	"vidsub/internal/services"
	"vidsub/internal/status"
	"vidsub/internal/subtitles"
)

type localizeOutcome struct {
	decision subtitles.Decision
	// path is the caption file the driver wrote, if any.
	path    string
	created bool
}

// localize runs Inspector -> Policy -> Driver over the tracks of one media
// base. With force, a target that already has text is re-translated from the
// source.
func (c *Controller) localize(ctx context.Context, r *run, base string, tracks []subtitles.Track, force bool) (localizeOutcome, error) {
	inspector := subtitles.NewInspector(r.logger)
	inspector.InspectTracks(tracks)

	targets := c.cfg.Subtitles.TargetLanguages
	sources := c.cfg.Subtitles.SourceLanguages
	decision := subtitles.Select(base, tracks, targets, sources)
	if force && decision.Action == subtitles.ActionNone && decision.Target != nil {
		decision = forceOverwrite(base, tracks, decision.Target.Path, targets, sources)
	}

	outcome := localizeOutcome{decision: decision}
	r.result.Decision = decision.Action
	r.logger.Info("caption decision",
		logging.String(logging.FieldEventType, "caption_decision"),
		logging.String("action", decision.Action.String()),
		logging.String("reason", decision.Reason),
	)

	switch decision.Action {
	case subtitles.ActionNone:
		r.result.Reason = decision.Reason
		c.reporter.Report(status.Info(decision.Reason))
		return outcome, nil
	case subtitles.ActionSkipNoSource, subtitles.ActionNothing:
		r.result.Reason = decision.Reason
		c.reporter.Report(status.Warn(decision.Reason))
		return outcome, nil
	}

	c.reporter.Report(status.Info(decision.Reason))
	driver := subtitles.NewDriver(c.translator, c.driverOptions(r)...)
	written, err := driver.TranslateFile(ctx, decision.Source.Path, decision.TargetPath, c.cfg.Translation.TargetLanguage)
	if err != nil {
		return outcome, err
	}
	outcome.path = written.TargetPath
	outcome.created = true
	r.result.Translated = true
	r.result.Reason = "translated " + decision.Source.Language + " captions"
	if decision.Action == subtitles.ActionCreate {
		r.result.CaptionPaths = append(r.result.CaptionPaths, written.TargetPath)
	}
	c.reporter.Report(status.Info("wrote " + filepath.Base(written.TargetPath)))
	return outcome, nil
}

func (c *Controller) driverOptions(r *run) []subtitles.DriverOption {
	opts := []subtitles.DriverOption{
		subtitles.WithUnit(c.cfg.TranslationUnit()),
		subtitles.WithDriverLogger(r.logger),
		subtitles.WithProgress(func(done, total int) {
			c.reporter.Report(status.Translate(done, total))
		}),
	}
	if c.sleeper != nil {
		opts = append(opts, subtitles.WithSleeper(c.sleeper))
	}
	return opts
}

// forceOverwrite re-runs the policy with the chosen target treated as empty.
func forceOverwrite(base string, tracks []subtitles.Track, targetPath string, targets, sources []string) subtitles.Decision {
	forced := make([]subtitles.Track, len(tracks))
	copy(forced, tracks)
	for i := range forced {
		if forced[i].Path == targetPath {
			forced[i].State = subtitles.StateEmpty
		}
	}
	decision := subtitles.Select(base, forced, targets, sources)
	if decision.Action == subtitles.ActionOverwrite {
		decision.Reason = "re-translating " + decision.Source.Language + " into " + decision.Target.Language
	}
	return decision
}

// TranslateOnly runs the translation fallback over captions that already sit
// next to a media file. name may be the media path or its extension-less base.
// Repeated calls are no-ops once a target caption has text, unless force is set.
func (c *Controller) TranslateOnly(ctx context.Context, name string, force bool) Result {
	base := c.resolveBase(name)
	r := c.begin(ctx, base, filepath.Dir(base))
	ctx = services.WithReference(services.WithRunID(ctx, r.id), r.ref)
	r.logger = logging.WithContext(ctx, c.logger)
	r.title = filepath.Base(base)

	if strings.TrimSpace(name) == "" {
		return c.finish(ctx, r, services.Wrap(services.ErrValidation, "translate", "request", "base name is required", nil))
	}
	unlock, err := c.prepareDir(r.dir)
	if err != nil {
		return c.finish(ctx, r, err)
	}
	defer unlock()

	tracks, err := subtitles.DiscoverTracks(base)
	if err != nil {
		return c.finish(ctx, r, err)
	}
	if len(tracks) == 0 {
		return c.finish(ctx, r, services.Wrap(services.ErrNotFound, "translate", "discover", "no caption files found for "+filepath.Base(base), nil))
	}
	r.result.CaptionPaths = trackPaths(tracks)

	r.phase = "translation"
	if _, err := c.localize(services.WithStage(ctx, "translate"), r, base, tracks, force); err != nil {
		return c.finish(ctx, r, err)
	}
	return c.finish(ctx, r, nil)
}

// resolveBase accepts a media file path or a caption base name. A bare name
// that matches nothing in the working directory is looked up in the
// configured output directory, where downloads land.
func (c *Controller) resolveBase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if !filepath.IsAbs(name) && filepath.Dir(name) == "." && !existsLocally(name) {
		dir := c.cfg.Paths.OutputDir
		if expanded, err := config.ExpandPath(dir); err == nil {
			dir = expanded
		}
		if strings.TrimSpace(dir) != "" {
			name = filepath.Join(dir, name)
		}
	}
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() && !strings.EqualFold(filepath.Ext(name), ".srt") {
		return subtitles.BasePath(name)
	}
	return name
}

// existsLocally reports whether name is a file, or the base of caption
// files, relative to the working directory.
func existsLocally(name string) bool {
	if _, err := os.Stat(name); err == nil {
		return true
	}
	tracks, err := subtitles.DiscoverTracks(name)
	return err == nil && len(tracks) > 0
}
