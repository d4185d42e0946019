package subtitles

import (
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := map[string]string{
		"/d/Kubernetes Tutorial [FULL COURSE in 4 Hours].mp4": "/d/Kubernetes Tutorial [FULL COURSE in 4 Hours]",
		"/d/v1.2 release.notes.mkv":                           "/d/v1.2 release.notes",
		"/d/noext":                                            "/d/noext",
		"/d/.hidden":                                          "/d/.hidden",
	}
	for in, want := range tests {
		if got := BasePath(in); got != want {
			t.Errorf("BasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDiscoverTracks(t *testing.T) {
	dir := t.TempDir()
	title := "Talk [FULL COURSE]"
	writeFile(t, dir, title+".mp4", "video")
	writeFile(t, dir, title+".en.srt", englishCaption)
	writeFile(t, dir, title+".zh-Hans.srt", emptyCaption)
	writeFile(t, dir, title+".part2.en.srt", englishCaption)
	writeFile(t, dir, "Other.en.srt", englishCaption)

	base := filepath.Join(dir, title)
	tracks, err := DiscoverTracks(base)
	if err != nil {
		t.Fatalf("DiscoverTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %+v", tracks)
	}
	if tracks[0].Language != "en" || tracks[1].Language != "zh-Hans" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}
	if tracks[1].Path != CaptionPath(base, "zh-Hans") {
		t.Fatalf("path = %q", tracks[1].Path)
	}

	AssignOrigins(tracks, []string{"en"}, []string{"zh-Hans", "en"})
	if tracks[0].Origin != OriginAuthor || tracks[1].Origin != OriginAuto {
		t.Fatalf("origins = %s, %s", tracks[0].Origin, tracks[1].Origin)
	}
}
