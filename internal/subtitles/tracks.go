package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Origin records who produced a caption track.
type Origin string

const (
	OriginUnknown Origin = ""
	OriginAuthor  Origin = "author"
	OriginAuto    Origin = "auto"
)

// Track is one caption file that belongs to a downloaded video.
type Track struct {
	Language string
	Origin   Origin
	Path     string
	State    State
}

// CaptionPath returns the sidecar path for language next to a media file
// whose extension has already been stripped.
func CaptionPath(basePath, language string) string {
	return basePath + "." + language + ".srt"
}

// BasePath strips only the final extension from a media path.
func BasePath(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	if ext == "" || ext == filepath.Base(mediaPath) {
		return mediaPath
	}
	return strings.TrimSuffix(mediaPath, ext)
}

// DiscoverTracks lists the <base>.<tag>.srt files that sit next to basePath.
// Titles routinely contain glob metacharacters, so names are matched by
// prefix rather than with filepath.Glob.
func DiscoverTracks(basePath string) ([]Track, error) {
	dir := filepath.Dir(basePath)
	prefix := filepath.Base(basePath) + "."
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list caption directory: %w", err)
	}
	var tracks []Track
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(strings.ToLower(name), ".srt") {
			continue
		}
		tag := name[len(prefix) : len(name)-len(".srt")]
		if tag == "" || strings.Contains(tag, ".") {
			continue
		}
		tracks = append(tracks, Track{
			Language: tag,
			Path:     filepath.Join(dir, name),
		})
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Language < tracks[j].Language })
	return tracks, nil
}

// AssignOrigins marks tracks whose language the engine listed as author or
// automatic captions.
func AssignOrigins(tracks []Track, author, auto []string) {
	authorSet := toSet(author)
	autoSet := toSet(auto)
	for i := range tracks {
		switch {
		case authorSet[tracks[i].Language]:
			tracks[i].Origin = OriginAuthor
		case autoSet[tracks[i].Language]:
			tracks[i].Origin = OriginAuto
		}
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
