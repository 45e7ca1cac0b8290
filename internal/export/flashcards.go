// Package export turns the in-memory map into downloadable study artifacts:
// an Anki-style flashcard CSV and an Obsidian vault zip.
package export

import (
	"fmt"
	"strings"

	"mindmap-backend/internal/domain"
)

// Flashcard is one front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardsFromNodes builds one card per node: the label on the front, the
// description on the back. A missing or label-repeating description gets a
// placeholder back so the card is still usable.
func FlashcardsFromNodes(nodes []domain.Node) []Flashcard {
	cards := make([]Flashcard, 0, len(nodes))
	for _, n := range nodes {
		back := strings.TrimSpace(n.Description)
		if back == "" || back == strings.TrimSpace(n.Label) {
			back = fmt.Sprintf("Definition or details for %s", n.Label)
		}
		cards = append(cards, Flashcard{Front: n.Label, Back: back})
	}
	return cards
}

// FlashcardsCSV renders cards as CSV with every field quoted and embedded
// quotes doubled, one card per line. encoding/csv only quotes when needed,
// so the quoting is done by hand to keep the output stable for importers
// that expect it.
func FlashcardsCSV(cards []Flashcard) []byte {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(`"` + escapeCSVField(c.Front) + `","` + escapeCSVField(c.Back) + "\"\n")
	}
	return []byte(b.String())
}

func escapeCSVField(field string) string {
	return strings.ReplaceAll(field, `"`, `""`)
}
