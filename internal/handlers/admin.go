package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

type UserListResponse struct {
	Success bool           `json:"success"`
	Users   []*models.User `json:"users"`
	Total   int            `json:"total"`
}

// ListUsers returns every account. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, apperr.Storage("Failed to list users", err))
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	writeJSON(w, http.StatusOK, UserListResponse{
		Success: true,
		Users:   users,
		Total:   len(users),
	})
}

// AdminDeleteGroup removes any group regardless of who created it.
func (h *Handler) AdminDeleteGroup(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	groupID, err := groupIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Membership.DeleteGroup(r.Context(), groupID, admin); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupResponse{Success: true, Message: "Group deleted"})
}

// DeleteFeedback removes one feedback entry. Admin only.
func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	if err := h.Feedback.DeleteFeedback(r.Context(), chi.URLParam(r, "feedbackID")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, apperr.NotFound("Feedback not found"))
			return
		}
		writeError(w, apperr.Storage("Failed to delete feedback", err))
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{Success: true, Message: "Feedback deleted"})
}
