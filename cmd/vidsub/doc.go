// Package main hosts the vidsub CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, wires the yt-dlp engine,
// the translation backend, ffmpeg, and the history store into a
// session.Controller, and renders its lifecycle through status.Reporter.
// Interactive mode is the default when no subcommand is given.
package main
