package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindmap-backend/internal/domain"
	"mindmap-backend/internal/session"
	apperrors "mindmap-backend/pkg/errors"
)

// NodeHandler serves the per-node mutation operations.
type NodeHandler struct {
	manager *session.Manager
	logger  *zap.Logger
}

// NewNodeHandler creates a node handler.
func NewNodeHandler(manager *session.Manager, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{manager: manager, logger: logger}
}

func (h *NodeHandler) sessionAndNode(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return nil, "", false
	}
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondError(w, h.logger, apperrors.NewValidation("node ID is required"))
		return nil, "", false
	}
	return sess, nodeID, true
}

func respondNodes(w http.ResponseWriter, nodes []domain.Node) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"nodes_added": len(nodes),
		"nodes":       nodes,
	})
}

// Elaborate handles POST /nodes/{nodeID}/elaborate.
func (h *NodeHandler) Elaborate(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	nodes, err := sess.Elaborate(r.Context(), nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondNodes(w, nodes)
}

// Examples handles POST /nodes/{nodeID}/examples.
func (h *NodeHandler) Examples(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	nodes, err := sess.GiveExamples(r.Context(), nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondNodes(w, nodes)
}

// Pros handles POST /nodes/{nodeID}/pros.
func (h *NodeHandler) Pros(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	nodes, err := sess.ElaboratePros(r.Context(), nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondNodes(w, nodes)
}

// Cons handles POST /nodes/{nodeID}/cons.
func (h *NodeHandler) Cons(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	nodes, err := sess.ElaborateCons(r.Context(), nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondNodes(w, nodes)
}

// Explain handles POST /nodes/{nodeID}/explain?kind=why. An absent kind
// yields the general explanation.
func (h *NodeHandler) Explain(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	kind := r.URL.Query().Get("kind")
	switch kind {
	case "", "what", "who", "when", "why", "how":
	default:
		respondError(w, h.logger, apperrors.NewValidation("unknown explanation kind"))
		return
	}
	node, err := sess.Explain(r.Context(), nodeID, kind)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, node)
}

// EnhanceDescription handles POST /nodes/{nodeID}/enhance-description.
func (h *NodeHandler) EnhanceDescription(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	newDesc, err := sess.EnhanceDescription(r.Context(), nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"updated":     newDesc != "",
		"description": newDesc,
	})
}

// Freeze handles POST /nodes/{nodeID}/freeze: toggles the pinned state.
func (h *NodeHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	pinned, err := sess.FreezeNode(nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"frozen": pinned})
}

// Get handles GET /nodes/{nodeID}.
func (h *NodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, nodeID, ok := h.sessionAndNode(w, r)
	if !ok {
		return
	}
	node, err := sess.Store().GetNode(nodeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, node)
}
