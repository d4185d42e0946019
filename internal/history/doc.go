// Package history persists one row per finished run in a SQLite database so
// `vidsub history` can show what was downloaded and why a run failed.
package history
