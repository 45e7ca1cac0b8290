package export

import (
	"path"
	"regexp"
	"strings"

	"mindmap-backend/internal/session"
)

var downloadNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// DownloadBaseName derives the stem for downloaded artifacts from the map's
// source: the transcript filename without its extension, or the video ID of
// a YouTube URL (falling back to the last path segment). Anything outside
// [a-zA-Z0-9_] is underscored.
func DownloadBaseName(src session.Source) string {
	base := "mindmap"
	switch src.Type {
	case session.SourceTranscript:
		if src.URI != "" {
			name := path.Base(src.URI)
			base = strings.TrimSuffix(name, path.Ext(name))
		}
	case session.SourceURL:
		if src.URI != "" {
			base = videoIDFromURL(src.URI)
		}
	}
	sanitized := downloadNameChars.ReplaceAllString(base, "_")
	if sanitized == "" {
		return "mindmap"
	}
	return sanitized
}

func videoIDFromURL(raw string) string {
	if _, after, found := strings.Cut(raw, "v="); found {
		id, _, _ := strings.Cut(after, "&")
		if id != "" {
			return id
		}
	}
	if seg := path.Base(strings.TrimRight(raw, "/")); seg != "" && seg != "." {
		return seg
	}
	return "mindmap"
}
