package ytdlp

import (
	"strconv"
	"strings"
	"time"
)

// EventKind distinguishes engine lifecycle events.
type EventKind int

const (
	EventDownload EventKind = iota
	EventPostProcess
	EventWarning
)

// Event is one parsed lifecycle line from yt-dlp.
type Event struct {
	Kind            EventKind
	Status          string
	DownloadedBytes int64
	// TotalBytes falls back to yt-dlp's estimate; 0 means unknown.
	TotalBytes int64
	// Speed is bytes per second; 0 means unknown.
	Speed float64
	// ETA is negative when unknown.
	ETA           time.Duration
	PostProcessor string
	Message       string
}

// Percent returns download completion in [0,100], or -1 when the total is unknown.
func (e Event) Percent() float64 {
	if e.TotalBytes <= 0 {
		return -1
	}
	p := float64(e.DownloadedBytes) / float64(e.TotalBytes) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// parseLine turns a templated progress line into an Event. The second return
// value is the media path announced by --print after_move.
func parseLine(line string) (Event, string, bool) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, downloadMarker+" "):
		fields := strings.Fields(line)
		if len(fields) < 7 {
			return Event{}, "", false
		}
		ev := Event{
			Kind:            EventDownload,
			Status:          fields[1],
			DownloadedBytes: parseInt(fields[2]),
			TotalBytes:      parseInt(fields[3]),
			Speed:           parseFloat(fields[5]),
			ETA:             -1,
		}
		if ev.TotalBytes <= 0 {
			ev.TotalBytes = parseInt(fields[4])
		}
		if eta := parseFloat(fields[6]); eta > 0 || fields[6] == "0" {
			ev.ETA = time.Duration(eta * float64(time.Second))
		}
		return ev, "", true
	case strings.HasPrefix(line, postMarker+" "):
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return Event{}, "", false
		}
		return Event{Kind: EventPostProcess, Status: fields[1], PostProcessor: fields[2]}, "", true
	case strings.HasPrefix(line, fileMarker+" "):
		return Event{}, strings.TrimSpace(strings.TrimPrefix(line, fileMarker)), false
	case strings.HasPrefix(line, "WARNING:"):
		return Event{Kind: EventWarning, Message: strings.TrimSpace(strings.TrimPrefix(line, "WARNING:"))}, "", true
	}
	return Event{}, "", false
}

func parseInt(value string) int64 {
	if value == "" || value == "NA" || value == "None" {
		return 0
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseFloat(value string) float64 {
	if value == "" || value == "NA" || value == "None" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
