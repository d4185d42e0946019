package status

import "time"

// Kind identifies the lifecycle event family.
type Kind int

const (
	KindDownload Kind = iota
	KindPostProcess
	KindTranslate
	KindNotice
	KindResult
)

// Progress reports whether events of this kind may be dropped.
func (k Kind) Progress() bool {
	return k == KindDownload || k == KindTranslate
}

// Level grades notices.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Event is one lifecycle update. Only the fields relevant to Kind are read.
type Event struct {
	Kind Kind

	// Download progress. Percent and ETA are negative when unknown; Speed is
	// bytes per second and zero when unknown.
	Percent float64
	Speed   float64
	ETA     time.Duration

	// Post-processing stage, e.g. "Merger" or "EmbedSubtitle".
	PostProcessor string

	// Translation progress.
	Done  int
	Total int

	// Notices and results.
	Level   Level
	Message string
	Success bool
	Hint    string
}

// Download builds a download progress event.
func Download(percent, speed float64, eta time.Duration) Event {
	return Event{Kind: KindDownload, Percent: percent, Speed: speed, ETA: eta}
}

// PostProcess builds a post-processing stage event.
func PostProcess(name string) Event {
	return Event{Kind: KindPostProcess, PostProcessor: name}
}

// Translate builds a translation progress event.
func Translate(done, total int) Event {
	return Event{Kind: KindTranslate, Done: done, Total: total}
}

// Info builds an informational notice.
func Info(message string) Event {
	return Event{Kind: KindNotice, Level: LevelInfo, Message: message}
}

// Warn builds a warning notice.
func Warn(message string) Event {
	return Event{Kind: KindNotice, Level: LevelWarn, Message: message}
}

// Error builds an error notice.
func Error(message string) Event {
	return Event{Kind: KindNotice, Level: LevelError, Message: message}
}

// Result builds the terminal event of a run.
func Result(success bool, message, hint string) Event {
	return Event{Kind: KindResult, Success: success, Message: message, Hint: hint}
}
