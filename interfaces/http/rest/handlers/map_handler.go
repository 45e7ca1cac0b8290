package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/prompts"
	"mindmap-backend/internal/session"
	"mindmap-backend/internal/source"
)

// MapHandler serves map lifecycle and whole-map operations.
type MapHandler struct {
	manager *session.Manager
	logger  *zap.Logger
}

// NewMapHandler creates a map handler.
func NewMapHandler(manager *session.Manager, logger *zap.Logger) *MapHandler {
	return &MapHandler{manager: manager, logger: logger}
}

type sourceRequest struct {
	Type     string `json:"type"` // "url" or "transcript"
	URI      string `json:"uri,omitempty"`
	Filename string `json:"filename,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (sr sourceRequest) resolve() (session.Source, error) {
	if sr.Type == "transcript" {
		name := sr.Filename
		if name == "" {
			// Pasted text arrives without a filename; name it like a
			// converted-text download.
			name = source.ConvertedTextFilename(time.Now())
		}
		return source.FromTranscript(name, sr.Text)
	}
	return source.FromURL(sr.URI)
}

type generateRequest struct {
	Source        sourceRequest `json:"source"`
	MapType       string        `json:"map_type,omitempty"`
	Complexity    string        `json:"complexity,omitempty"`
	ObsidianStyle bool          `json:"obsidian_style,omitempty"`
	ArrowsEnabled *bool         `json:"arrows_enabled,omitempty"`
}

func (gr generateRequest) sessionConfig() session.Config {
	cfg := session.Config{
		ObsidianStyle: gr.ObsidianStyle,
		MapType:       domain.MapTypeStandard,
		Complexity:    prompts.Complexity(gr.Complexity),
		ArrowsEnabled: true,
	}
	if gr.MapType == string(domain.MapTypeHistorical) {
		cfg.MapType = domain.MapTypeHistorical
	}
	if gr.ArrowsEnabled != nil {
		cfg.ArrowsEnabled = *gr.ArrowsEnabled
	}
	return cfg
}

type mapResponse struct {
	Config session.Config     `json:"config"`
	Data   domain.MindMapData `json:"data"`
}

// Generate handles POST /maps: opens a fresh session and generates the map
// from the given source.
func (h *MapHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	src, err := req.Source.resolve()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	sess := h.manager.Open(req.sessionConfig())
	data, err := sess.Generate(r.Context(), src)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapResponse{Config: sess.Config(), Data: data})
}

// LoadExample handles POST /maps/example: opens the built-in demo map.
func (h *MapHandler) LoadExample(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	// The body is optional; defaults match the demo data's obsidian styling.
	_ = decodeJSON(r, &req)
	cfg := req.sessionConfig()
	cfg.ObsidianStyle = true

	sess := h.manager.Open(cfg)
	if err := sess.LoadPreloaded(session.ExampleMap()); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapResponse{Config: sess.Config(), Data: sess.Data()})
}

// Get handles GET /map: the current data, configuration and busy state.
func (h *MapHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	busy, kind := sess.Busy()
	respondJSON(w, http.StatusOK, struct {
		mapResponse
		Busy          bool               `json:"busy"`
		OperationKind string             `json:"operation_kind,omitempty"`
		Label         string             `json:"operation_label,omitempty"`
		Enablement    session.Enablement `json:"enablement"`
	}{
		mapResponse:   mapResponse{Config: sess.Config(), Data: sess.Data()},
		Busy:          busy,
		OperationKind: string(kind),
		Label:         kind.Label(),
		Enablement:    sess.Enablement(),
	})
}

type mergeRequest struct {
	Source           sourceRequest `json:"source"`
	AlternateColor   bool          `json:"alternate_color,omitempty"`
	AttemptMerge     bool          `json:"attempt_merge,omitempty"`
	MakeTopNodesMain bool          `json:"make_top_nodes_main,omitempty"`
}

// Merge handles POST /map/merge: folds new content into the current map.
func (h *MapHandler) Merge(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req mergeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	src, err := req.Source.resolve()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	res, err := sess.MergeContent(r.Context(), session.MergeOptions{
		Source:           src,
		AlternateColor:   req.AlternateColor,
		AttemptMerge:     req.AttemptMerge,
		MakeTopNodesMain: req.MakeTopNodesMain,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

type expandRequest struct {
	PerParent int  `json:"per_parent"`
	UseSearch bool `json:"use_search,omitempty"`
}

// Expand handles POST /map/expand.
func (h *MapHandler) Expand(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req expandRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.PerParent <= 0 {
		req.PerParent = 3
	}

	total, err := sess.ExpandMap(r.Context(), req.PerParent, req.UseSearch)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"total_nodes_added": total})
}

// AddDescriptions handles POST /map/descriptions.
func (h *MapHandler) AddDescriptions(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	updated, err := sess.AddMissingDescriptions(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"nodes_updated": updated})
}

// Context handles GET /map/context: the prompt-facing serialization, mainly
// useful for debugging prompts.
func (h *MapHandler) Context(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(sess.MapContext()))
}
