// Package config loads, normalizes, and validates vidsub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts and paths relative to the working directory), reads TOML files,
// and honours environment fallbacks such as VIDSUB_OUTPUT_DIR and
// VIDSUB_YTDLP. The Config type centralizes every knob the CLI and the
// download session need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
