package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/session"
	apperrors "mindmap-backend/pkg/errors"
)

func TestFlashcardsCSV_QuotingAndEscaping(t *testing.T) {
	cards := []Flashcard{
		{Front: `He said "hi"`, Back: "A greeting."},
		{Front: "Plain", Back: "No quotes here"},
	}

	csv := string(FlashcardsCSV(cards))

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"He said ""hi""","A greeting."`, lines[0])
	assert.Equal(t, `"Plain","No quotes here"`, lines[1])
}

func TestFlashcardsFromNodes_BackFallback(t *testing.T) {
	nodes := []domain.Node{
		{Label: "Osmosis", Description: "Diffusion of water across a membrane."},
		{Label: "Entropy", Description: "Entropy"},
		{Label: "Enthalpy"},
	}

	cards := FlashcardsFromNodes(nodes)

	require.Len(t, cards, 3)
	assert.Equal(t, "Diffusion of water across a membrane.", cards[0].Back)
	assert.Equal(t, "Definition or details for Entropy", cards[1].Back)
	assert.Equal(t, "Definition or details for Enthalpy", cards[2].Back)
}

func TestSanitizeNoteTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{`What is "life"?`, "What is _life_"},
		{"a/b\\c:d", "a_b_c_d"},
		{"   ", "Untitled_Note"},
		{"", "Untitled_Note"},
		{"Clean Title", "Clean Title"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeNoteTitle(tc.in), tc.in)
	}
}

func TestObsidianZip_NotesAndWikilinks(t *testing.T) {
	data := domain.MindMapData{
		Nodes: []domain.Node{
			{ID: "a", Label: "Alpha", Description: "The first letter.", Era: "Ancient Greece"},
			{ID: "b", Label: "Beta"},
		},
		Edges: []domain.Edge{
			{ID: "e1", From: "a", To: "b"},
		},
	}

	blob, err := ObsidianZip(data)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		raw, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(raw)
	}

	alpha := contents["Alpha.md"]
	assert.Contains(t, alpha, "title: Alpha")
	assert.Contains(t, alpha, "tags:\n  - Ancient_Greece")
	assert.Contains(t, alpha, "The first letter.\n\n- [[Beta]]")

	beta := contents["Beta.md"]
	assert.Contains(t, beta, "title: Beta")
	assert.NotContains(t, beta, "[[")
}

func TestObsidianZip_EmptyMapRejected(t *testing.T) {
	_, err := ObsidianZip(domain.MindMapData{})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDownloadBaseName(t *testing.T) {
	cases := []struct {
		name string
		src  session.Source
		want string
	}{
		{"youtube watch url", session.Source{Type: session.SourceURL, URI: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10"}, "dQw4w9WgXcQ"},
		{"short url", session.Source{Type: session.SourceURL, URI: "https://youtu.be/dQw4w9WgXcQ"}, "dQw4w9WgXcQ"},
		{"transcript file", session.Source{Type: session.SourceTranscript, URI: "lecture notes.txt"}, "lecture_notes"},
		{"no source", session.Source{}, "mindmap"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DownloadBaseName(tc.src))
		})
	}
}
