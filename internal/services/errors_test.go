package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"vidsub/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "download", "yt-dlp", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"download", "yt-dlp", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestHintOnlyForRateLimit(t *testing.T) {
	limited := fmt.Errorf("outer: %w", services.Wrap(services.ErrRateLimited, "download", "", "HTTP Error 429", nil))
	if got := services.Hint(limited); got != services.RateLimitHint {
		t.Fatalf("expected rate limit hint, got %q", got)
	}
	other := services.Wrap(services.ErrExternalTool, "download", "", "exit 1", nil)
	if got := services.Hint(other); got != "" {
		t.Fatalf("expected no hint, got %q", got)
	}
}

func TestFailureReason(t *testing.T) {
	if services.FailureReason(nil) != "" {
		t.Fatal("expected empty reason for nil error")
	}
	limited := services.Wrap(services.ErrRateLimited, "download", "", "429", nil)
	if reason := services.FailureReason(limited); !strings.HasPrefix(reason, "download rate limited") {
		t.Fatalf("unexpected reason %q", reason)
	}
	locked := services.Wrap(services.ErrLocked, "session", "lock", "held", nil)
	if reason := services.FailureReason(locked); !strings.HasPrefix(reason, "output directory busy") {
		t.Fatalf("unexpected reason %q", reason)
	}
}
