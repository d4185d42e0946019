package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Format renders e as a single human-readable line (two for a failed result
// that carries a hint).
func Format(e Event) string {
	switch e.Kind {
	case KindDownload:
		return fmt.Sprintf("download %s | speed %s | eta %s", formatPercent(e.Percent), formatSpeed(e.Speed), formatETA(e.ETA))
	case KindPostProcess:
		switch e.PostProcessor {
		case "Merger":
			return "download finished, merging formats..."
		case "EmbedSubtitle":
			return "embedding captions..."
		case "":
			return "download finished, processing..."
		default:
			return "download finished, processing: " + e.PostProcessor
		}
	case KindTranslate:
		percent := 100.0
		if e.Total > 0 {
			percent = float64(e.Done) / float64(e.Total) * 100
		}
		return fmt.Sprintf("translating %.1f%% (%d/%d)", percent, e.Done, e.Total)
	case KindNotice:
		switch e.Level {
		case LevelWarn:
			return "warning: " + e.Message
		case LevelError:
			return "error: " + e.Message
		default:
			return e.Message
		}
	case KindResult:
		if e.Success {
			return "done: " + e.Message
		}
		line := "failed: " + e.Message
		if strings.TrimSpace(e.Hint) != "" {
			line += "\nhint: " + e.Hint
		}
		return line
	}
	return e.Message
}

func formatPercent(p float64) string {
	if p < 0 {
		return "N/A"
	}
	if p > 100 {
		p = 100
	}
	return fmt.Sprintf("%.1f%%", p)
}

// formatSpeed renders throughput in IEC units, e.g. "1.5 MiB/s".
func formatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return "N/A"
	}
	return humanize.IBytes(uint64(bytesPerSecond)) + "/s"
}

// formatETA renders whole minutes and seconds, e.g. "3m07s".
func formatETA(eta time.Duration) string {
	if eta < 0 {
		return "N/A"
	}
	total := int64(eta.Round(time.Second) / time.Second)
	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}
