// Package logging assembles structured slog loggers and formatting helpers used
// across vidsub.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so pipeline code can tag log lines with run
// IDs, stages, and video references. The package also provides a no-op logger
// for tests and a progress sampler that keeps high-frequency download progress
// out of the log file.
//
// Logs are diagnostic; user-facing status lines are rendered by the status
// package instead.
package logging
