package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
	ErrRateLimited   = errors.New("rate limited")
	ErrParse         = errors.New("parse error")
	ErrLocked        = errors.New("resource locked")
)

// RateLimitHint is shown to the user whenever the content source throttles
// the download engine.
const RateLimitHint = "the source answered 429 Too Many Requests; wait a while before retrying, " +
	"or export a cookies file to youtube_cookies.txt in the working directory"

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hint returns the actionable hint associated with err, if any.
func Hint(err error) string {
	if errors.Is(err, ErrRateLimited) {
		return RateLimitHint
	}
	return ""
}

// FailureReason renders err as the single-line reason stored in a run result.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrRateLimited):
		return "download rate limited: " + strings.TrimSpace(err.Error())
	case errors.Is(err, ErrLocked):
		return "output directory busy: " + strings.TrimSpace(err.Error())
	default:
		return strings.TrimSpace(err.Error())
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
