// Package session runs one download request end to end.
//
// A Controller owns the pipeline for a single output directory at a time:
// impersonation pre-flight, metadata probe, download, caption discovery,
// the selection policy, the translation fallback, and optional embedding.
// Every call to Run produces exactly one Result, which is also rendered to
// the status reporter and recorded in the history store.
package session
