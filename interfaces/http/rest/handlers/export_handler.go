package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mindmap-backend/internal/export"
	"mindmap-backend/internal/session"
	"mindmap-backend/internal/source"
	apperrors "mindmap-backend/pkg/errors"
)

// ExportHandler serves the downloadable artifacts.
type ExportHandler struct {
	manager *session.Manager
	logger  *zap.Logger
}

// NewExportHandler creates an export handler.
func NewExportHandler(manager *session.Manager, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{manager: manager, logger: logger}
}

// Flashcards handles GET /export/flashcards: a CSV of the important nodes.
func (h *ExportHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !sess.Enablement().CanExport {
		respondError(w, h.logger, apperrors.NewValidation("export requires a loaded obsidian-style map and no operation in progress"))
		return
	}
	nodes := sess.ImportantNodes()
	if len(nodes) == 0 {
		respondError(w, h.logger, apperrors.NewValidation("no important nodes found for flashcards"))
		return
	}
	csv := export.FlashcardsCSV(export.FlashcardsFromNodes(nodes))
	base := export.DownloadBaseName(sess.LastSource())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"_flashcards.csv"))
	_, _ = w.Write(csv)
}

// ConvertedText handles GET /export/converted-text: the pasted or uploaded
// transcript the current map was generated from, as a plain-text download.
func (h *ExportHandler) ConvertedText(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	src := sess.LastSource()
	if src.Type != session.SourceTranscript || src.Text == "" {
		respondError(w, h.logger, apperrors.NewValidation("no transcript text to download"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", source.ConvertedTextFilename(time.Now())))
	_, _ = w.Write([]byte(src.Text))
}

// Obsidian handles GET /export/obsidian: a zip of markdown notes.
func (h *ExportHandler) Obsidian(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !sess.Enablement().CanExport {
		respondError(w, h.logger, apperrors.NewValidation("export requires a loaded obsidian-style map and no operation in progress"))
		return
	}
	blob, err := export.ObsidianZip(sess.Data())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	base := export.DownloadBaseName(sess.LastSource())

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"_obsidian_export.zip"))
	_, _ = w.Write(blob)
}
