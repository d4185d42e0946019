package main

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// validReference accepts a bare 11-character YouTube video id or a YouTube
// watch, short, embed, live, or youtu.be URL that carries one.
func validReference(ref string) bool {
	ref = strings.TrimSpace(ref)
	if videoIDPattern.MatchString(ref) {
		return true
	}
	if !strings.Contains(ref, "://") {
		ref = "https://" + ref
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be":
		return videoIDPattern.MatchString(strings.Trim(u.Path, "/"))
	case "youtube.com", "m.youtube.com", "music.youtube.com":
	default:
		return false
	}
	if u.Path == "/watch" {
		return videoIDPattern.MatchString(u.Query().Get("v"))
	}
	for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
		if id, ok := strings.CutPrefix(u.Path, prefix); ok {
			return videoIDPattern.MatchString(strings.Trim(id, "/"))
		}
	}
	return false
}
