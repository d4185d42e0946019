package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidsub/internal/language"
	"vidsub/internal/logging"
	"vidsub/internal/services/ytdlp"
	"vidsub/internal/status"
)

func (c *Controller) downloadOptions(dir string, req Request) ytdlp.Options {
	dl := c.cfg.Download
	return ytdlp.Options{
		OutputDir:         dir,
		OutputTemplate:    dl.OutputTemplate,
		Format:            dl.Format,
		MaxHeight:         dl.MaxHeight,
		MergeOutputFormat: dl.MergeOutputFormat,
		SubtitleLanguages: c.captionLanguages(),
		WriteSubtitles:    true,
		WriteAutoSubs:     true,
		ConvertSubtitles:  "srt",
		EmbedSubtitles:    req.EmbedSubtitles,
		EmbedMetadata:     dl.EmbedMetadata,
		Retries:           dl.Retries,
		FragmentRetries:   dl.FragmentRetries,
		ExtractorRetries:  dl.ExtractorRetries,
		RetrySleep:        dl.RetrySleep,
		CookieFile:        c.cfg.CookieFileIfPresent(),
	}
}

// captionLanguages is the target family followed by the source family.
func (c *Controller) captionLanguages() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, lang := range append(append([]string(nil), c.cfg.Subtitles.TargetLanguages...), c.cfg.Subtitles.SourceLanguages...) {
		key := strings.ToLower(lang)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, lang)
	}
	return out
}

// preflightImpersonation picks a browser profile. Any failure downgrades to
// default networking with a warning; it never fails the run.
func (c *Controller) preflightImpersonation(ctx context.Context, r *run, opts *ytdlp.Options) {
	if !c.cfg.Download.Impersonate {
		return
	}
	targets, err := c.engine.ImpersonateTargets(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.WarnWithContext(r.logger, "impersonation targets unavailable", "impersonate_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install curl_cffi for yt-dlp browser impersonation"),
			logging.String(logging.FieldImpact, "download uses default networking"),
		)
		c.reporter.Report(status.Warn("browser impersonation unavailable; using default networking"))
		return
	}
	profile := ytdlp.PickImpersonation(targets, c.cfg.Download.PreferredImpersonation)
	if profile == "" {
		logging.WarnWithContext(r.logger, "no chrome impersonation profile available", "impersonate_unavailable",
			logging.Int("targets", len(targets)),
			logging.String(logging.FieldErrorHint, "install curl_cffi for yt-dlp browser impersonation"),
			logging.String(logging.FieldImpact, "download uses default networking"),
		)
		c.reporter.Report(status.Warn("no chrome impersonation profile available; using default networking"))
		return
	}
	opts.Impersonate = profile
	r.logger.Info("using browser impersonation", logging.String("profile", profile))
	c.reporter.Report(status.Info("impersonating " + profile))
}

func (c *Controller) reportProbe(r *run, info ytdlp.Info) {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = r.ref
	}
	if info.Duration > 0 {
		c.reporter.Report(status.Info(fmt.Sprintf("title: %s (%s)", title, info.Duration.Round(time.Second))))
	} else {
		c.reporter.Report(status.Info("title: " + title))
	}

	langs := info.CaptionLanguages()
	targets := filterFamily(langs, c.cfg.Subtitles.TargetLanguages)
	sources := filterFamily(langs, c.cfg.Subtitles.SourceLanguages)
	r.logger.Info("probe complete",
		logging.String(logging.FieldEventType, "probe_complete"),
		logging.String("title", info.Title),
		logging.Duration("duration", info.Duration),
		logging.Int("caption_languages", len(langs)),
		logging.String("target_hits", strings.Join(targets, ",")),
	)
	switch {
	case len(targets) > 0:
		c.reporter.Report(status.Info("target captions available: " + strings.Join(targets, ", ")))
	case len(sources) > 0:
		c.reporter.Report(status.Warn("no target-language captions; source captions available: " + strings.Join(sources, ", ")))
	default:
		c.reporter.Report(status.Warn("no captions available for this video"))
	}
}

func filterFamily(langs, family []string) []string {
	var out []string
	for _, lang := range langs {
		if language.InFamily(lang, family) {
			out = append(out, lang)
		}
	}
	return out
}

// forwardEngineEvents maps yt-dlp events onto status events.
func (c *Controller) forwardEngineEvents(r *run) func(ytdlp.Event) {
	return func(ev ytdlp.Event) {
		switch ev.Kind {
		case ytdlp.EventDownload:
			c.reporter.Report(status.Download(ev.Percent(), ev.Speed, ev.ETA))
		case ytdlp.EventPostProcess:
			if ev.Status == "started" {
				c.reporter.Report(status.PostProcess(ev.PostProcessor))
			}
		case ytdlp.EventWarning:
			r.logger.Warn("engine warning",
				logging.String(logging.FieldEventType, "engine_warning"),
				logging.String("message", ev.Message),
			)
			c.reporter.Report(status.Warn(ev.Message))
		}
	}
}
