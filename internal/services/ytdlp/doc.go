// Package ytdlp mediates access to the yt-dlp CLI used to fetch videos and
// their caption tracks.
//
// It builds the command line from typed Options, parses the machine-readable
// progress lines requested through --progress-template, decodes metadata
// probes, and classifies failures so throttling (HTTP 429) surfaces as
// services.ErrRateLimited. An Executor interface keeps the client testable
// without the binary installed.
package ytdlp
