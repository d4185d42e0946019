// Package services defines shared utilities consumed by the run pipeline and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and video references
//     for logging.
//   - Structured error markers plus the Wrap helper that let the session
//     controller classify failures (rate limiting, tool errors, parse errors)
//     without string matching.
//   - Subpackages wrapping the external collaborators: the yt-dlp download
//     engine and the translation backend.
//
// Use these helpers when wiring new pipeline steps so failure reporting stays
// uniform.
package services
