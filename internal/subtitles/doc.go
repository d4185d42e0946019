// Package subtitles inspects, selects, and translates SRT caption files.
//
// The Inspector decides whether a caption file carries any text, detecting
// its character encoding from the content. Select applies the caption
// decision table to the tracks found next to a downloaded video. The Driver
// translates cues one at a time against a rate-limited backend with bounded
// retries and writes the result atomically as UTF-8. Muxer embeds a caption
// into the media container with ffmpeg.
package subtitles
