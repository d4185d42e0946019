// Package googletranslate calls the public Google Translate endpoint used to
// localize caption text one cue at a time.
//
// The client performs exactly one request per Translate call; retries and
// backoff belong to the caller. A token-bucket limiter spaces requests so a
// single process never bursts the endpoint.
package googletranslate
