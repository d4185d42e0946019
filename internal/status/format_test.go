package status

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"download", Download(42.25, 1.5*1024*1024, 187*time.Second), "download 42.2% | speed 1.5 MiB/s | eta 3m07s"},
		{"download unknown", Download(-1, 0, -1), "download N/A | speed N/A | eta N/A"},
		{"download clamps", Download(140, 512, 0), "download 100.0% | speed 512 B/s | eta 0m00s"},
		{"merger", PostProcess("Merger"), "download finished, merging formats..."},
		{"embed", PostProcess("EmbedSubtitle"), "embedding captions..."},
		{"other pp", PostProcess("Metadata"), "download finished, processing: Metadata"},
		{"translate", Translate(2, 8), "translating 25.0% (2/8)"},
		{"translate empty", Translate(0, 0), "translating 100.0% (0/0)"},
		{"info", Info("video title: Talk"), "video title: Talk"},
		{"warn", Warn("no captions"), "warning: no captions"},
		{"error", Error("boom"), "error: boom"},
		{"success", Result(true, "saved to /out", ""), "done: saved to /out"},
		{"failure", Result(false, "download rate limited", "wait"), "failed: download rate limited\nhint: wait"},
		{"failure no hint", Result(false, "video unavailable", ""), "failed: video unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.event); got != tt.want {
				t.Fatalf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
