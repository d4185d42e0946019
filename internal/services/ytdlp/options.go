package ytdlp

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	downloadMarker = "vidsub-dl"
	postMarker     = "vidsub-pp"
	fileMarker     = "vidsub-file"
)

// Options is the typed form of a yt-dlp download invocation.
type Options struct {
	OutputDir         string
	OutputTemplate    string
	Format            string
	MaxHeight         int
	MergeOutputFormat string
	SubtitleLanguages []string
	WriteSubtitles    bool
	WriteAutoSubs     bool
	ConvertSubtitles  string
	EmbedSubtitles    bool
	EmbedMetadata     bool
	Retries           int
	FragmentRetries   int
	ExtractorRetries  int
	RetrySleep        string
	CookieFile        string
	Impersonate       string
}

// FormatSelector returns the explicit format, or one capped at maxHeight
// that prefers mp4 video with m4a audio.
func FormatSelector(format string, maxHeight int) string {
	if strings.TrimSpace(format) != "" {
		return format
	}
	if maxHeight <= 0 {
		return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	}
	h := strconv.Itoa(maxHeight)
	return fmt.Sprintf("bestvideo[height<=%s][ext=mp4]+bestaudio[ext=m4a]/best[height<=%s][ext=mp4]/best", h, h)
}

// OutputPattern joins the output directory with the filename template.
func (o Options) OutputPattern() string {
	template := o.OutputTemplate
	if template == "" {
		template = "%(title)s.%(ext)s"
	}
	if o.OutputDir == "" {
		return template
	}
	return filepath.Join(o.OutputDir, template)
}

// networkArgs are shared by probes and downloads.
func (o Options) networkArgs() []string {
	var args []string
	if o.CookieFile != "" {
		args = append(args, "--cookies", o.CookieFile)
	}
	if o.Impersonate != "" {
		args = append(args, "--impersonate", o.Impersonate)
	}
	if o.ExtractorRetries > 0 {
		args = append(args, "--extractor-retries", strconv.Itoa(o.ExtractorRetries))
	}
	return args
}

// DownloadArgs renders the full argument list for a download of reference.
func (o Options) DownloadArgs(reference string) []string {
	args := []string{
		"--no-playlist",
		"--newline",
		"--progress",
		"--progress-template", "download:" + downloadMarker + " %(progress.status)s %(progress.downloaded_bytes)s %(progress.total_bytes)s %(progress.total_bytes_estimate)s %(progress.speed)s %(progress.eta)s",
		"--progress-template", "postprocess:" + postMarker + " %(progress.status)s %(progress.postprocessor)s",
		"--print", "after_move:" + fileMarker + " %(filepath)s",
		"-f", FormatSelector(o.Format, o.MaxHeight),
		"-o", o.OutputPattern(),
	}
	if o.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", o.MergeOutputFormat)
	}
	if o.WriteSubtitles {
		args = append(args, "--write-subs")
	}
	if o.WriteAutoSubs {
		args = append(args, "--write-auto-subs")
	}
	if len(o.SubtitleLanguages) > 0 {
		args = append(args, "--sub-langs", strings.Join(o.SubtitleLanguages, ","))
	}
	if o.ConvertSubtitles != "" {
		args = append(args, "--sub-format", o.ConvertSubtitles+"/best", "--convert-subs", o.ConvertSubtitles)
	}
	if o.EmbedSubtitles {
		args = append(args, "--embed-subs")
	}
	if o.EmbedMetadata {
		args = append(args, "--embed-metadata")
	}
	if o.Retries > 0 {
		args = append(args, "--retries", strconv.Itoa(o.Retries))
	}
	if o.FragmentRetries > 0 {
		args = append(args, "--fragment-retries", strconv.Itoa(o.FragmentRetries))
	}
	if o.RetrySleep != "" {
		args = append(args, "--retry-sleep", o.RetrySleep)
	}
	args = append(args, o.networkArgs()...)
	return append(args, "--", reference)
}

// ProbeArgs renders the metadata-only invocation for reference.
func (o Options) ProbeArgs(reference string) []string {
	args := []string{"-J", "--skip-download", "--no-playlist", "--no-warnings", "-o", o.OutputPattern()}
	if o.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", o.MergeOutputFormat)
	}
	args = append(args, o.networkArgs()...)
	return append(args, "--", reference)
}
