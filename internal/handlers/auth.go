package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
)

// RegisterRequest is the signup payload. The username is not part of it;
// the server derives one from the name.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

// AuthResponse carries the user and, after login, the session token.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// Register handles user registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	u, err := h.Credentials.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Registration successful",
		User:    u,
	})
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	u, err := h.Credentials.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.Sessions.Create(r.Context(), u.ID)
	if err != nil {
		writeError(w, apperr.Storage("Failed to create session", err))
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    u,
		Token:   token,
	})
}

// Logout invalidates the current session. Always succeeds: an already
// expired token has nothing left to invalidate.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token != "" {
		if err := h.Sessions.Invalidate(r.Context(), token); err != nil {
			writeError(w, apperr.Storage("Failed to invalidate session", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logged out",
	})
}

// Me returns the authenticated user's own record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "OK",
		User:    u,
	})
}
