// Package source validates and normalizes the two kinds of generation
// input: YouTube URLs and uploaded transcript text.
package source

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"mindmap-backend/internal/session"
	"mindmap-backend/pkg/errors"
)

var youtubeHosts = map[string]bool{
	"youtube.com":   true,
	"youtu.be":      true,
	"m.youtube.com": true,
}

// VideoID extracts the video identifier from a YouTube URL, accepting the
// watch, short-link and embed forms. Returns a validation error for
// anything else.
func VideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.NewValidation("video URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", errors.NewValidation("video URL is not a valid URL")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if !youtubeHosts[host] {
		return "", errors.NewValidation("only YouTube URLs are supported")
	}

	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case strings.HasPrefix(u.Path, "/embed/"):
		id = strings.Trim(strings.TrimPrefix(u.Path, "/embed/"), "/")
	default:
		id = u.Query().Get("v")
	}
	if id == "" {
		return "", errors.NewValidation("video URL has no video ID")
	}
	return id, nil
}

// FromURL builds a generation source from a YouTube URL after validating it.
func FromURL(raw string) (session.Source, error) {
	if _, err := VideoID(raw); err != nil {
		return session.Source{}, err
	}
	return session.Source{Type: session.SourceURL, URI: strings.TrimSpace(raw)}, nil
}

// FromTranscript builds a generation source from an uploaded transcript.
// Only .txt uploads are accepted, matching the upload control.
func FromTranscript(filename, content string) (session.Source, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".txt") {
		return session.Source{}, errors.NewValidation("transcript upload must be a .txt file")
	}
	if strings.TrimSpace(content) == "" {
		return session.Source{}, errors.NewValidation("transcript file is empty")
	}
	return session.Source{Type: session.SourceTranscript, URI: filename, Text: content}, nil
}

// ConvertedTextFilename names the .txt download produced when pasted text is
// converted into a transcript file.
func ConvertedTextFilename(now time.Time) string {
	return fmt.Sprintf("converted_text_%d.txt", now.UnixMilli())
}
