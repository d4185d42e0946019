// Package deps checks that the external binaries vidsub shells out to
// (yt-dlp and ffmpeg) can be resolved.
package deps
