package session

import (
	"context"

	"vidsub/internal/history"
	"vidsub/internal/services/ytdlp"
	"vidsub/internal/status"
	"vidsub/internal/subtitles"
)

// Request describes one download. It is passed by value and never mutated
// once Run starts.
type Request struct {
	Reference string
	// OutputDir overrides paths.output_dir when non-empty.
	OutputDir         string
	EmbedSubtitles    bool
	TranslateFallback bool
}

// Result is the outcome of one Run or TranslateOnly call.
type Result struct {
	RunID        string
	Success      bool
	Title        string
	MediaPath    string
	CaptionPaths []string
	// Reason explains a failure, or what happened to the captions on success.
	Reason   string
	Hint     string
	Decision subtitles.Action
	// Translated is true when a caption file was written by the driver.
	Translated bool
	// Cancelled is true when the run stopped because its context was cancelled.
	Cancelled bool
}

// Engine is the slice of the download engine the controller drives.
type Engine interface {
	ImpersonateTargets(ctx context.Context) ([]ytdlp.ImpersonateTarget, error)
	Probe(ctx context.Context, reference string, opts ytdlp.Options) (ytdlp.Info, error)
	Download(ctx context.Context, reference string, opts ytdlp.Options, observer func(ytdlp.Event)) (ytdlp.Result, error)
}

// Embedder muxes a caption file into its media container.
type Embedder interface {
	Embed(ctx context.Context, req subtitles.EmbedRequest) error
}

// Reporter receives user-facing lifecycle events.
type Reporter interface {
	Report(status.Event)
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

type discardReporter struct{}

func (discardReporter) Report(status.Event) {}
