package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/session"
	apperrors "mindmap-backend/pkg/errors"
)

// LayoutHandler serves the display configuration, physics and selection
// endpoints, including connection mode and the AI connector operation.
type LayoutHandler struct {
	manager *session.Manager
	logger  *zap.Logger
}

// NewLayoutHandler creates a layout handler.
func NewLayoutHandler(manager *session.Manager, logger *zap.Logger) *LayoutHandler {
	return &LayoutHandler{manager: manager, logger: logger}
}

// GetConfig handles GET /layout/config.
func (h *LayoutHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Layout().Config())
}

// SetConfig handles PUT /layout/config: re-applies styling and physics
// sliders.
func (h *LayoutHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var cfg layout.DisplayConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, h.logger, err)
		return
	}
	sess.Layout().Configure(cfg)
	respondJSON(w, http.StatusOK, sess.Layout().Config())
}

type physicsRequest struct {
	Frozen bool `json:"frozen"`
}

// SetPhysics handles POST /layout/physics.
func (h *LayoutHandler) SetPhysics(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req physicsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	sess.Layout().SetPhysicsEnabled(!req.Frozen)
	respondJSON(w, http.StatusOK, map[string]bool{"frozen": sess.Layout().PhysicsFrozen()})
}

// Stabilized handles POST /layout/stabilized: the client reports the
// simulation settled. The first report per map pins the root node.
func (h *LayoutHandler) Stabilized(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	pinnedID, err := sess.HandleStabilized()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"pinned_node_id": pinnedID})
}

// Click handles POST /layout/click/{nodeID}: selection semantics for the
// current mode.
func (h *LayoutHandler) Click(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	sess.Layout().ClickNode(chi.URLParam(r, "nodeID"))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"selected_node":        sess.Layout().SelectedNode(),
		"connection_mode":      sess.Layout().ConnectionMode(),
		"connection_selection": sess.Layout().ConnectionSelection(),
	})
}

type connectionModeRequest struct {
	Active bool `json:"active"`
}

// SetConnectionMode handles POST /layout/connection-mode.
func (h *LayoutHandler) SetConnectionMode(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req connectionModeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	sess.Layout().SetConnectionMode(req.Active)
	respondJSON(w, http.StatusOK, map[string]bool{"connection_mode": sess.Layout().ConnectionMode()})
}

type connectRequest struct {
	NodeIDs []string `json:"node_ids,omitempty"`
}

// Connect handles POST /connections: creates the AI connector node over the
// given nodes, defaulting to the current connection selection.
func (h *LayoutHandler) Connect(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req connectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	nodeIDs := req.NodeIDs
	if len(nodeIDs) == 0 {
		nodeIDs = sess.Layout().ConnectionSelection()
	}
	if len(nodeIDs) < 2 {
		respondError(w, h.logger, apperrors.NewValidation("select at least two nodes to connect"))
		return
	}
	node, err := sess.MakeConnection(r.Context(), nodeIDs)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, node)
}
