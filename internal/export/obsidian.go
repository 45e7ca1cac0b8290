package export

import (
	"archive/zip"
	"bytes"
	"regexp"
	"strings"

	"mindmap-backend/internal/domain"
	"mindmap-backend/pkg/errors"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[/\\:*?"<>|]`)
	repeatedUnderscores  = regexp.MustCompile(`__+`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// SanitizeNoteTitle turns a node label into a safe markdown filename stem:
// filesystem-reserved characters become underscores, runs collapse, and an
// empty result falls back to a default.
func SanitizeNoteTitle(title string) string {
	s := invalidFilenameChars.ReplaceAllString(title, "_")
	s = strings.TrimSpace(s)
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	if s == "" {
		return "Untitled_Note"
	}
	return s
}

// obsidianNote is one vault note derived from a node.
type obsidianNote struct {
	title    string
	desc     string
	tags     []string
	aliases  []string
	outgoing []string // labels of linked nodes, becomes [[wikilinks]]
}

// noteMarkdown renders the YAML frontmatter (title, optional tags and
// aliases) followed by the description and a wikilink bullet per outgoing
// edge.
func noteMarkdown(n obsidianNote) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: " + n.title + "\n")
	if len(n.tags) > 0 {
		b.WriteString("tags:\n")
		for _, t := range n.tags {
			b.WriteString("  - " + t + "\n")
		}
	}
	if len(n.aliases) > 0 {
		b.WriteString("aliases:\n")
		for _, a := range n.aliases {
			b.WriteString("  - " + a + "\n")
		}
	}
	b.WriteString("---\n")

	body := n.desc
	if len(n.outgoing) > 0 {
		if body != "" {
			body += "\n\n"
		} else {
			body += "\n"
		}
		links := make([]string, len(n.outgoing))
		for i, target := range n.outgoing {
			links[i] = "- [[" + target + "]]"
		}
		body += strings.Join(links, "\n")
	}
	b.WriteString(body)
	return b.String()
}

// ObsidianZip renders the whole map as a zip of markdown notes, one per
// node, cross-linked through wikilinks on each node's outgoing edges. Era
// values become tags with whitespace underscored.
func ObsidianZip(data domain.MindMapData) ([]byte, error) {
	if len(data.Nodes) == 0 {
		return nil, errors.NewValidation("no nodes to export")
	}

	labels := make(map[string]string, len(data.Nodes))
	for _, n := range data.Nodes {
		labels[n.ID] = n.Label
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range data.Nodes {
		note := obsidianNote{title: n.Label}
		if n.Description != "" && n.Description != n.Label {
			note.desc = n.Description
		}
		if n.Era != "" {
			note.tags = []string{whitespaceRun.ReplaceAllString(n.Era, "_")}
		}
		// When sanitizing changed the filename, keep the display label
		// reachable as an alias.
		if SanitizeNoteTitle(n.Label) != n.Label {
			note.aliases = []string{n.Label}
		}
		for _, e := range data.Edges {
			if e.From != n.ID {
				continue
			}
			if target, ok := labels[e.To]; ok {
				note.outgoing = append(note.outgoing, target)
			}
		}

		w, err := zw.Create(SanitizeNoteTitle(n.Label) + ".md")
		if err != nil {
			return nil, errors.NewInternal("creating zip entry", err)
		}
		if _, err := w.Write([]byte(noteMarkdown(note))); err != nil {
			return nil, errors.NewInternal("writing zip entry", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.NewInternal("finalizing zip archive", err)
	}
	return buf.Bytes(), nil
}
