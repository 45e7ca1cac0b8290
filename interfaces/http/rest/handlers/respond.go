// Package handlers implements the REST endpoints over the active mind-map
// session.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "mindmap-backend/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Upstream AI
// failures surface as 502 so clients can distinguish them from our own 500s.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	errType := "INTERNAL"
	switch {
	case apperrors.IsValidation(err):
		status, errType = http.StatusBadRequest, "VALIDATION"
	case apperrors.IsNotFound(err):
		status, errType = http.StatusNotFound, "NOT_FOUND"
	case apperrors.IsConflict(err):
		status, errType = http.StatusConflict, "CONFLICT"
	case apperrors.IsAIRequest(err):
		status, errType = http.StatusBadGateway, "AI_REQUEST"
	case apperrors.IsMalformedResponse(err):
		status, errType = http.StatusBadGateway, "MALFORMED_RESPONSE"
	case apperrors.IsInvalidShape(err):
		status, errType = http.StatusBadGateway, "INVALID_SHAPE"
	}
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	respondJSON(w, status, errorBody{Error: err.Error(), Type: errType})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidation("invalid JSON request body")
	}
	return nil
}
