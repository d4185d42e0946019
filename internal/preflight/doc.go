// Package preflight provides readiness checks for the filesystem paths,
// binaries, and translation endpoint vidsub depends on.
//
// The `vidsub check` command renders every result; the session controller
// only consults the binary checks so a missing ffmpeg surfaces as a warning.
package preflight
