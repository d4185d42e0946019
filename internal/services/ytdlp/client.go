package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"vidsub/internal/services"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary          string
	probeTimeout    time.Duration
	downloadTimeout time.Duration
	exec            Executor
}

// New constructs a yt-dlp client. Zero timeouts disable the deadline.
func New(binary string, probeTimeoutSeconds, downloadTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:          binary,
		probeTimeout:    time.Duration(probeTimeoutSeconds) * time.Second,
		downloadTimeout: time.Duration(downloadTimeoutSeconds) * time.Second,
		exec:            commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

// Version returns the yt-dlp version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version string
	stderr := newTail(5)
	err := c.exec.Run(ctx, c.binary, []string{"--version"}, func(line string) {
		if version == "" {
			version = strings.TrimSpace(line)
		}
	}, stderr.add)
	if err != nil {
		return "", classify(ctx, "version", err, stderr.lines())
	}
	return version, nil
}

// ImpersonateTarget is one row of --list-impersonate-targets.
type ImpersonateTarget struct {
	Client    string
	OS        string
	Source    string
	Available bool
}

// ImpersonateTargets lists the browser impersonation profiles yt-dlp knows.
func (c *Client) ImpersonateTargets(ctx context.Context) ([]ImpersonateTarget, error) {
	var lines []string
	stderr := newTail(5)
	err := c.exec.Run(ctx, c.binary, []string{"--list-impersonate-targets"}, func(line string) {
		lines = append(lines, line)
	}, stderr.add)
	if err != nil {
		return nil, classify(ctx, "impersonate", err, stderr.lines())
	}
	return parseImpersonateTargets(lines), nil
}

func parseImpersonateTargets(lines []string) []ImpersonateTarget {
	var targets []ImpersonateTarget
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "-") {
			continue
		}
		fields := strings.Fields(trimmed)
		if strings.EqualFold(fields[0], "client") {
			continue
		}
		target := ImpersonateTarget{
			Client:    fields[0],
			Available: !strings.Contains(strings.ToLower(trimmed), "unavailable"),
		}
		if len(fields) > 1 {
			target.OS = fields[1]
		}
		if len(fields) > 2 {
			target.Source = fields[2]
		}
		targets = append(targets, target)
	}
	return targets
}

// PickImpersonation returns the first preferred profile that is available,
// else the first available chrome profile, else "".
func PickImpersonation(targets []ImpersonateTarget, preferred []string) string {
	normalize := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
	}
	for _, want := range preferred {
		for _, t := range targets {
			if t.Available && normalize(t.Client) == normalize(want) {
				return strings.ToLower(t.Client)
			}
		}
	}
	for _, t := range targets {
		if t.Available && strings.Contains(strings.ToLower(t.Client), "chrome") {
			return strings.ToLower(t.Client)
		}
	}
	return ""
}

// Info is the subset of yt-dlp metadata the session needs.
type Info struct {
	ID       string
	Title    string
	Duration time.Duration
	// Subtitles are author-provided caption languages.
	Subtitles []string
	// AutoCaptions are automatically generated caption languages.
	AutoCaptions []string
	// Filename is the predicted output path before merging.
	Filename string
}

// CaptionLanguages returns the sorted union of author and automatic caption languages.
func (i Info) CaptionLanguages() []string {
	seen := make(map[string]struct{}, len(i.Subtitles)+len(i.AutoCaptions))
	var out []string
	for _, lang := range append(append([]string(nil), i.Subtitles...), i.AutoCaptions...) {
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

type infoJSON struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Duration          float64                    `json:"duration"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
	Filename          string                     `json:"filename"`
	LegacyFilename    string                     `json:"_filename"`
}

// Probe queries metadata without downloading.
func (c *Client) Probe(ctx context.Context, reference string, opts Options) (Info, error) {
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}
	var out strings.Builder
	stderr := newTail(20)
	err := c.exec.Run(ctx, c.binary, opts.ProbeArgs(reference), func(line string) {
		out.WriteString(line)
		out.WriteByte('\n')
	}, stderr.add)
	if err != nil {
		return Info{}, classify(ctx, "probe", err, stderr.lines())
	}

	var raw infoJSON
	if err := json.Unmarshal([]byte(out.String()), &raw); err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "probe", "decode metadata", "yt-dlp returned invalid JSON", err)
	}
	info := Info{
		ID:           raw.ID,
		Title:        raw.Title,
		Duration:     time.Duration(raw.Duration * float64(time.Second)),
		Subtitles:    sortedKeys(raw.Subtitles),
		AutoCaptions: sortedKeys(raw.AutomaticCaptions),
		Filename:     raw.Filename,
	}
	if info.Filename == "" {
		info.Filename = raw.LegacyFilename
	}
	return info, nil
}

// Result describes a finished download.
type Result struct {
	MediaPath string
	Warnings  []string
}

// Download runs yt-dlp and streams parsed events to observer.
func (c *Client) Download(ctx context.Context, reference string, opts Options, observer func(Event)) (Result, error) {
	if c.downloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.downloadTimeout)
		defer cancel()
	}
	var (
		mu     sync.Mutex
		result Result
	)
	stderr := newTail(20)
	handle := func(line string) {
		ev, path, ok := parseLine(line)
		mu.Lock()
		if path != "" {
			result.MediaPath = path
		}
		if ok && ev.Kind == EventWarning {
			result.Warnings = append(result.Warnings, ev.Message)
		}
		mu.Unlock()
		if ok && observer != nil {
			observer(ev)
		}
	}
	err := c.exec.Run(ctx, c.binary, opts.DownloadArgs(reference), handle, func(line string) {
		stderr.add(line)
		handle(line)
	})
	if err != nil {
		return result, classify(ctx, "download", err, stderr.lines())
	}
	if result.MediaPath == "" {
		return result, services.Wrap(services.ErrExternalTool, "download", "resolve output", "yt-dlp did not report a media file", nil)
	}
	return result, nil
}

// classify maps an executor failure onto the service error markers.
func classify(ctx context.Context, op string, err error, stderr []string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return services.Wrap(services.ErrExternalTool, op, "yt-dlp", "timed out", ctxErr)
		}
		return ctxErr
	}
	if errors.Is(err, exec.ErrNotFound) {
		return services.Wrap(services.ErrExternalTool, op, "yt-dlp", "binary not found on PATH", err)
	}
	detail := lastError(stderr)
	if isRateLimited(stderr) {
		return services.Wrap(services.ErrRateLimited, op, "yt-dlp", detail, err)
	}
	return services.Wrap(services.ErrExternalTool, op, "yt-dlp", detail, err)
}

func isRateLimited(lines []string) bool {
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "http error 429") || strings.Contains(lower, "too many requests") {
			return true
		}
	}
	return false
}

func lastError(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(lines[i], "ERROR:"))
		}
	}
	if len(lines) > 0 {
		return strings.TrimSpace(lines[len(lines)-1])
	}
	return "exited with error"
}

func sortedKeys(m map[string]json.RawMessage) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == "live_chat" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tail keeps the last n stderr lines for error reporting.
type tail struct {
	mu  sync.Mutex
	max int
	buf []string
}

func newTail(n int) *tail {
	return &tail{max: n}
}

func (t *tail) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, line)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
}

func (t *tail) lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.buf...)
}
