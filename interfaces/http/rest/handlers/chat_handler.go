package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mindmap-backend/internal/session"
)

// ChatHandler serves the map-grounded chat and chat-to-node integration.
type ChatHandler struct {
	manager *session.Manager
	logger  *zap.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(manager *session.Manager, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{manager: manager, logger: logger}
}

type chatRequest struct {
	Query     string `json:"query"`
	UseSearch bool   `json:"use_search,omitempty"`
}

// Ask handles POST /chat.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	reply, err := sess.Chat(r.Context(), req.Query, req.UseSearch)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

// History handles GET /chat/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.ChatHistory())
}

type chatAddRequest struct {
	Entity         string `json:"entity"`
	MessageContext string `json:"message_context,omitempty"`
}

// AddNode handles POST /chat/add-node: promotes a chat term to a map node.
func (h *ChatHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Current()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req chatAddRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	res, err := sess.AddNodeFromChat(r.Context(), req.Entity, req.MessageContext)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}
