package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpeg reports the ffmpeg binary used for merging and embedding.
//
// Lookup order: the configured command when it is not the bare default, an
// ffmpeg sitting next to the yt-dlp executable (standalone yt-dlp bundles ship
// this way and yt-dlp prefers it), then "ffmpeg" from PATH.
func CheckFFmpeg(configured, ytdlpCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Merges streams and embeds translated captions",
		Optional:    true,
	}

	configured = strings.TrimSpace(configured)
	if configured != "" && configured != "ffmpeg" {
		if resolved, err := exec.LookPath(configured); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
	}

	if ytdlp := strings.TrimSpace(ytdlpCommand); ytdlp != "" {
		if resolved, err := exec.LookPath(ytdlp); err == nil {
			candidate := sidecarCandidate(resolved)
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}

	if ffmpegPath, err := exec.LookPath("ffmpeg"); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = "ffmpeg"
	if configured != "" {
		result.Command = configured
	}
	result.Detail = fmt.Sprintf("binary %q not found", result.Command)
	return result
}

func sidecarCandidate(ytdlpPath string) string {
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(ytdlpPath), name)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
