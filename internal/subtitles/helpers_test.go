package subtitles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var errBackend = errors.New("backend unavailable")

// fakeTranslator answers from a script of per-call results, falling back to
// uppercasing the input.
type fakeTranslator struct {
	mu     sync.Mutex
	calls  []string
	script []fakeResult
	fail   bool
	hook   func(call int)
}

type fakeResult struct {
	text string
	err  error
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	call := len(f.calls)
	if f.hook != nil {
		f.hook(call)
	}
	if f.fail {
		return "", errBackend
	}
	if call <= len(f.script) {
		r := f.script[call-1]
		return r.text, r.err
	}
	return strings.ToUpper(text), nil
}

type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const emptyCaption = "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:02,000 --> 00:00:03,000\n \n"

const englishCaption = "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:02,000 --> 00:00:03,000\nWorld\n"
