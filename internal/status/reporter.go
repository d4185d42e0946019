package status

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"vidsub/internal/logging"
)

const defaultCapacity = 64

const (
	ansiReset     = "\x1b[0m"
	ansiRed       = "\x1b[31m"
	ansiGreen     = "\x1b[32m"
	ansiYellow    = "\x1b[33m"
	ansiClearLine = "\x1b[K"
)

// Reporter writes formatted events from a background goroutine.
type Reporter struct {
	out      io.Writer
	tty      bool
	capacity int

	mu      sync.Mutex
	queue   []Event
	closed  bool
	dropped int

	notify    chan struct{}
	flushReq  chan chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// render state, owned by the loop goroutine
	inline   bool
	samplers map[Kind]*logging.ProgressSampler
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithCapacity bounds how many progress events may wait for the writer.
func WithCapacity(n int) ReporterOption {
	return func(r *Reporter) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithTerminal overrides terminal detection.
func WithTerminal(tty bool) ReporterOption {
	return func(r *Reporter) {
		r.tty = tty
	}
}

// NewReporter starts a reporter writing to out. On a terminal, progress is
// redrawn in place and lines are coloured; elsewhere progress is sampled to
// 5% steps, one line each.
func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		out:      out,
		tty:      isTerminal(out),
		capacity: defaultCapacity,
		notify:   make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		samplers: map[Kind]*logging.ProgressSampler{
			KindDownload:  logging.NewProgressSampler(5),
			KindTranslate: logging.NewProgressSampler(5),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.loop()
	return r
}

// Report queues e without blocking. Progress events beyond capacity are
// dropped; notices and results are always kept.
func (r *Reporter) Report(e Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if e.Kind.Progress() && len(r.queue) >= r.capacity {
		r.dropped++
		r.mu.Unlock()
		return
	}
	r.queue = append(r.queue, e)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Dropped returns how many progress events were discarded.
func (r *Reporter) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Flush blocks until every event reported before the call has been written.
// Callers use it before writing to the same output themselves.
func (r *Reporter) Flush() {
	if r == nil {
		return
	}
	ack := make(chan struct{})
	select {
	case r.flushReq <- ack:
		<-ack
	case <-r.done:
	}
}

// Close flushes queued events and stops the writer goroutine.
func (r *Reporter) Close() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.stop)
	})
	<-r.done
}

func (r *Reporter) loop() {
	defer close(r.done)
	for {
		select {
		case <-r.notify:
			r.flush()
		case ack := <-r.flushReq:
			r.flush()
			r.endInline()
			close(ack)
		case <-r.stop:
			r.flush()
			r.endInline()
			return
		}
	}
}

func (r *Reporter) flush() {
	r.mu.Lock()
	pending := r.queue
	r.queue = nil
	r.mu.Unlock()
	for _, e := range pending {
		r.render(e)
	}
}

func (r *Reporter) render(e Event) {
	line := Format(e)
	if e.Kind.Progress() {
		if r.tty {
			fmt.Fprint(r.out, "\r"+line+ansiClearLine)
			r.inline = true
			return
		}
		if !r.samplers[e.Kind].ShouldLog(progressPercent(e), "") {
			return
		}
		fmt.Fprintln(r.out, line)
		return
	}

	r.endInline()
	// a new phase restarts progress sampling
	for _, s := range r.samplers {
		s.Reset()
	}
	if r.tty {
		if color := colorFor(e); color != "" {
			line = color + line + ansiReset
		}
	}
	fmt.Fprintln(r.out, line)
}

func (r *Reporter) endInline() {
	if r.inline {
		fmt.Fprintln(r.out)
		r.inline = false
	}
}

func progressPercent(e Event) float64 {
	if e.Kind == KindTranslate {
		if e.Total <= 0 {
			return 100
		}
		return float64(e.Done) / float64(e.Total) * 100
	}
	return e.Percent
}

func colorFor(e Event) string {
	switch e.Kind {
	case KindNotice:
		switch e.Level {
		case LevelWarn:
			return ansiYellow
		case LevelError:
			return ansiRed
		}
	case KindResult:
		if e.Success {
			return ansiGreen
		}
		return ansiRed
	}
	return ""
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
