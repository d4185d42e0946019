// Package status renders run lifecycle events as human-readable lines.
//
// Format is a pure projection from Event to text. Reporter delivers events to
// a writer from a single goroutine so producers (the download observer and
// the translation driver) never wait on the terminal; under pressure it drops
// progress updates but always delivers notices and the final result.
package status
