package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error's kind to an HTTP status and writes the
// envelope. Unclassified errors become a generic 500 so internals never
// leak to clients.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), ErrorResponse{
		Success: false,
		Message: apperr.MessageOf(err),
	})
}

// extractBearerToken extracts the token from "Bearer <token>".
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// currentUser resolves the request's session token to a user. The bool is
// false when the token is missing, expired or maps to a deleted account; an
// error response has been written in that case.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, apperr.Credential("Missing session token"))
		return nil, false
	}

	userID, ok, err := h.Sessions.Validate(r.Context(), token)
	if err != nil {
		writeError(w, apperr.Storage("Failed to validate session", err))
		return nil, false
	}
	if !ok {
		writeError(w, apperr.Credential("Invalid or expired session token"))
		return nil, false
	}

	u, err := h.Users.UserByID(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		// Account deleted while the session was still alive.
		h.Sessions.Invalidate(r.Context(), token)
		writeError(w, apperr.Credential("Invalid or expired session token"))
		return nil, false
	}
	if err != nil {
		writeError(w, apperr.Storage("Failed to look up user", err))
		return nil, false
	}
	return u, true
}

// requireAdmin is currentUser plus a role check.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return nil, false
	}
	if !u.IsAdmin() {
		writeError(w, apperr.Forbidden("Admin access required"))
		return nil, false
	}
	return u, true
}
