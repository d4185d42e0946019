package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"vidsub/internal/fileutil"
	langpkg "vidsub/internal/language"
	"vidsub/internal/logging"
	"vidsub/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// EmbedRequest describes a caption track to add to a media container.
type EmbedRequest struct {
	MediaPath    string // Container to update in place
	SubtitlePath string // SRT file to embed
	Language     string // BCP 47 tag (e.g. "zh-Hans")
}

// Muxer embeds SRT captions into media containers using ffmpeg.
type Muxer struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewMuxer constructs a caption muxer around the ffmpeg binary.
func NewMuxer(binary string, logger *slog.Logger) *Muxer {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Muxer{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "muxer"),
		run:    defaultMuxerCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *Muxer) WithCommandRunner(r commandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// Embed adds the caption as the first, default subtitle stream while keeping
// every existing stream. The container is replaced atomically; the sidecar
// SRT stays on disk.
func (m *Muxer) Embed(ctx context.Context, req EmbedRequest) error {
	if m == nil {
		return fmt.Errorf("muxer not initialized")
	}
	if strings.TrimSpace(req.MediaPath) == "" {
		return services.Wrap(services.ErrValidation, "embed", "validate", "media path is required", nil)
	}
	if _, err := os.Stat(req.MediaPath); err != nil {
		return services.Wrap(services.ErrNotFound, "embed", "stat media", filepath.Base(req.MediaPath), err)
	}
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return services.Wrap(services.ErrNotFound, "embed", "stat caption", filepath.Base(req.SubtitlePath), err)
	}

	// Keep the extension so ffmpeg picks the same muxer.
	tmpPath := filepath.Join(filepath.Dir(req.MediaPath), ".mux-"+filepath.Base(req.MediaPath))
	args := buildEmbedArgs(req, tmpPath)

	m.logger.Debug("executing ffmpeg",
		logging.String("media_path", req.MediaPath),
		logging.String("subtitle_path", req.SubtitlePath),
		logging.String("language", req.Language),
	)

	if err := m.run(ctx, m.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "embed", "ffmpeg", "", err)
	}
	if err := fileutil.ReplaceFile(tmpPath, req.MediaPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "embed", "replace media", "", err)
	}

	m.logger.Info("caption embedded",
		logging.String(logging.FieldEventType, "caption_embed_complete"),
		logging.String("media_path", req.MediaPath),
		logging.String("language", req.Language),
	)
	return nil
}

func buildEmbedArgs(req EmbedRequest, outputPath string) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", req.MediaPath,
		"-i", req.SubtitlePath,
		"-map", "0:v?",
		"-map", "0:a?",
		"-map", "1:0",
		"-map", "0:s?",
		"-c", "copy",
		"-c:s:0", subtitleCodec(req.MediaPath),
		"-metadata:s:s:0", "language=" + langpkg.ToISO3(req.Language),
		"-metadata:s:s:0", "title=" + langpkg.DisplayName(req.Language),
		"-disposition:s:0", "default",
	}
	return append(args, outputPath)
}

func subtitleCodec(mediaPath string) string {
	switch strings.ToLower(filepath.Ext(mediaPath)) {
	case ".mkv":
		return "srt"
	case ".webm":
		return "webvtt"
	default:
		return "mov_text"
	}
}

// defaultMuxerCommandRunner executes ffmpeg commands.
func defaultMuxerCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Include output in error for debugging
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
