package subtitles

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"vidsub/internal/logging"
	"vidsub/internal/services"
)

// State is the emptiness classification of a caption file.
type State int

const (
	StateUnknown State = iota
	StateAbsent
	StateEmpty
	StateNonEmpty
	// StateUnreadable means the file exists but could not be decoded or
	// parsed. Callers must not overwrite a target in this state.
	StateUnreadable
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateEmpty:
		return "empty"
	case StateNonEmpty:
		return "non-empty"
	case StateUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Classify reports whether any cue carries visible text.
func Classify(cues []Cue) State {
	for _, cue := range cues {
		if !cue.Blank() {
			return StateNonEmpty
		}
	}
	return StateEmpty
}

// Inspector classifies caption files. One Inspector belongs to one run; a
// non-empty verdict is cached and never recomputed for that run.
type Inspector struct {
	logger *slog.Logger

	mu       sync.Mutex
	nonEmpty map[string]struct{}
}

// NewInspector constructs a run-scoped inspector.
func NewInspector(logger *slog.Logger) *Inspector {
	return &Inspector{
		logger:   logging.NewComponentLogger(logger, "inspector"),
		nonEmpty: make(map[string]struct{}),
	}
}

// Inspect classifies the caption file at path. StateUnreadable is returned
// together with an ErrParse-marked error describing the problem.
func (i *Inspector) Inspect(path string) (State, error) {
	key := filepath.Clean(path)
	if i.cached(key) {
		return StateNonEmpty, nil
	}

	data, err := os.ReadFile(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StateAbsent, nil
		}
		return StateUnreadable, services.Wrap(services.ErrParse, "inspect", "read caption", filepath.Base(key), err)
	}

	text, charset, err := DecodeText(data)
	if err != nil {
		return StateUnreadable, services.Wrap(services.ErrParse, "inspect", "decode caption", filepath.Base(key), err)
	}
	cues, err := ParseSRT(text)
	if err != nil {
		return StateUnreadable, services.Wrap(services.ErrParse, "inspect", "parse caption", filepath.Base(key), err)
	}

	state := Classify(cues)
	i.logger.Debug("caption inspected",
		logging.String("path", key),
		logging.String("charset", charset),
		logging.Int("cues", len(cues)),
		logging.String("state", state.String()),
	)
	if state == StateNonEmpty {
		i.mu.Lock()
		i.nonEmpty[key] = struct{}{}
		i.mu.Unlock()
	}
	return state, nil
}

// InspectTracks fills in the State of every track that has not been
// classified yet. Unreadable files are logged and keep StateUnreadable.
func (i *Inspector) InspectTracks(tracks []Track) {
	for idx := range tracks {
		if tracks[idx].State != StateUnknown {
			continue
		}
		state, err := i.Inspect(tracks[idx].Path)
		if err != nil {
			logging.WarnWithContext(i.logger, "caption file could not be parsed", "caption_unreadable",
				logging.String("path", tracks[idx].Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the file manually; it will not be overwritten"),
			)
		}
		tracks[idx].State = state
	}
}

func (i *Inspector) cached(key string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.nonEmpty[key]
	return ok
}
