package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"vidsub/internal/config"
	"vidsub/internal/deps"
	"vidsub/internal/services"
	"vidsub/internal/services/googletranslate"
)

// CheckTranslationBackend sends one short phrase to the translation endpoint.
// It uses a 10-second timeout and a single attempt.
func CheckTranslationBackend(ctx context.Context, cfg config.Translation) Result {
	const name = "Translation backend"

	if strings.TrimSpace(cfg.TargetLanguage) == "" {
		return Result{Name: name, Detail: "target language missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := googletranslate.NewClient(googletranslate.Config{
		BaseURL:        cfg.BaseURL,
		SourceLanguage: cfg.SourceLanguage,
		TimeoutSeconds: cfg.TimeoutSeconds,
	})
	out, err := client.Translate(checkCtx, "hello", cfg.TargetLanguage)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	if strings.TrimSpace(out) == "" {
		return Result{Name: name, Detail: "endpoint returned an empty translation"}
	}
	return Result{Name: name, Passed: true, Detail: "reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCookieFile reports whether the cookies file will be passed to yt-dlp.
// A missing file is not a failure; downloads just run without cookies.
func CheckCookieFile(path string) Result {
	const name = "Cookie file"

	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Passed: true, Detail: "disabled"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s not present (downloads run without cookies)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: unreadable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be used)", path)}
}

// CheckSystemDeps evaluates the external binaries for the given config:
// yt-dlp is required, ffmpeg is optional.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Download.YtdlpBinary,
			Description: "Required for probing and downloading",
		},
	})
	return append(statuses, deps.CheckFFmpeg(cfg.Remux.FFmpegBinary, cfg.Download.YtdlpBinary))
}

// summarizeError produces a human-readable summary for backend check failures.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (translation endpoint unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (translation endpoint unreachable)"
	}
	if errors.Is(err, services.ErrRateLimited) {
		return "endpoint is rate limiting this address"
	}
	return err.Error()
}
