package subtitles

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vidsub/internal/logging"
	"vidsub/internal/services"
)

// Translator is the remote text translation backend.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Driver translates cues one at a time in index order with bounded retries.
type Driver struct {
	backend    Translator
	unit       time.Duration
	sleep      Sleeper
	logger     *slog.Logger
	onAttempt  func(Attempt)
	onProgress func(done, total int)
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithUnit sets the base time unit for backoff and pacing.
func WithUnit(unit time.Duration) DriverOption {
	return func(d *Driver) {
		if unit > 0 {
			d.unit = unit
		}
	}
}

// WithSleeper overrides how the driver waits (primarily for tests).
func WithSleeper(s Sleeper) DriverOption {
	return func(d *Driver) {
		if s != nil {
			d.sleep = s
		}
	}
}

// WithDriverLogger sets the logger.
func WithDriverLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logging.NewComponentLogger(logger, "translator")
	}
}

// WithAttemptObserver receives every attempt the driver makes.
func WithAttemptObserver(fn func(Attempt)) DriverOption {
	return func(d *Driver) {
		d.onAttempt = fn
	}
}

// WithProgress receives (done, total) after each cue.
func WithProgress(fn func(done, total int)) DriverOption {
	return func(d *Driver) {
		d.onProgress = fn
	}
}

// NewDriver constructs a driver around backend.
func NewDriver(backend Translator, opts ...DriverOption) *Driver {
	d := &Driver{
		backend: backend,
		unit:    time.Second,
		sleep:   sleepContext,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Translate returns a copy of cues with text translated into targetLang.
// Count, order, indices and timing are preserved. A cue whose attempts are
// exhausted keeps its original text. Only cancellation returns an error,
// in which case no cues are returned.
func (d *Driver) Translate(ctx context.Context, cues []Cue, targetLang string) ([]Cue, error) {
	if d == nil || d.backend == nil {
		return nil, services.Wrap(services.ErrConfiguration, "translate", "init", "translation backend not configured", nil)
	}
	out := make([]Cue, len(cues))
	copy(out, cues)

	total := len(out)
	called := false
	sampler := logging.NewProgressSampler(10)
	fallbacks := 0
	for i := range out {
		if out[i].Blank() {
			out[i].Text = ""
			d.progress(i+1, total, sampler)
			continue
		}
		if called {
			// pacing between backend calls
			if err := d.sleep(ctx, d.unit); err != nil {
				return nil, err
			}
		}
		called = true

		translated, ok, err := d.translateCue(ctx, i, out[i].Text, targetLang)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i].Text = translated
		} else {
			fallbacks++
		}
		d.progress(i+1, total, sampler)
	}
	if fallbacks > 0 {
		logging.WarnWithContext(d.logger, "some captions kept their original text", "translate_fallback",
			logging.Int("fallback_cues", fallbacks),
			logging.Int("total_cues", total),
			logging.String(logging.FieldErrorHint, "re-run with --force once the translation backend is reachable"),
			logging.String(logging.FieldImpact, "untranslated lines remain in the output"),
		)
	}
	return out, nil
}

func (d *Driver) translateCue(ctx context.Context, entry int, text, targetLang string) (string, bool, error) {
	attempt := 1
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		result, err := d.backend.Translate(ctx, text, targetLang)
		result = NormalizeCueText(result)
		if err == nil && result == "" {
			err = services.Wrap(services.ErrTransient, "translate", "backend", "empty translation", nil)
		}
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return "", false, ctx.Err()
		}

		step := NextStep(attempt, err != nil)
		if d.onAttempt != nil {
			d.onAttempt(Attempt{Entry: entry, Number: attempt, Outcome: step.Outcome(), Err: err})
		}
		switch step.Kind {
		case StepSucceeded:
			return result, true, nil
		case StepFallback:
			d.logger.Debug("translation attempts exhausted",
				logging.Int("entry", entry),
				logging.Int("attempts", attempt),
				logging.Error(err),
			)
			return "", false, nil
		}

		wait := time.Duration(step.WaitUnits) * d.unit
		d.logger.Debug("translation attempt failed",
			logging.Int("entry", entry),
			logging.Int("attempt", attempt),
			logging.Duration("backoff", wait),
			logging.Error(err),
		)
		if err := d.sleep(ctx, wait); err != nil {
			return "", false, err
		}
		attempt = step.Next
	}
}

func (d *Driver) progress(done, total int, sampler *logging.ProgressSampler) {
	if d.onProgress != nil {
		d.onProgress(done, total)
	}
	if total == 0 {
		return
	}
	percent := float64(done) / float64(total) * 100
	if sampler.ShouldLog(percent, "translate") {
		d.logger.Info("translation progress",
			logging.Int("done", done),
			logging.Int("total", total),
			logging.Float64("percent", percent),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
