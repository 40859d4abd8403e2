package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/pkg/clientip"
)

type SubmitFeedbackRequest struct {
	Feedback string `json:"feedback"`
}

type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type FeedbackListResponse struct {
	Success   bool               `json:"success"`
	Feedbacks []*models.Feedback `json:"feedbacks"`
	Total     int                `json:"total"`
}

// SubmitFeedback stores an anonymous feedback entry. No session required.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	if req.Feedback == "" {
		writeError(w, apperr.Validation("Feedback is required"))
		return
	}
	if len(req.Feedback) < 10 {
		writeError(w, apperr.Validation("Feedback must be at least 10 characters long"))
		return
	}

	f := &models.Feedback{
		CreatedAt: time.Now().UTC(),
		Feedback:  req.Feedback,
		IPAddress: clientip.RealClientIP(r),
	}
	if err := h.Feedback.CreateFeedback(r.Context(), f); err != nil {
		writeError(w, apperr.Storage("Failed to save feedback", err))
		return
	}

	writeJSON(w, http.StatusCreated, FeedbackResponse{
		Success: true,
		Message: "Thank you for your feedback",
	})
}

// ListFeedback returns every feedback entry, newest first. Admin only.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	feedbacks, err := h.Feedback.ListFeedback(r.Context())
	if err != nil {
		writeError(w, apperr.Storage("Failed to list feedback", err))
		return
	}
	if feedbacks == nil {
		feedbacks = []*models.Feedback{}
	}

	writeJSON(w, http.StatusOK, FeedbackListResponse{
		Success:   true,
		Feedbacks: feedbacks,
		Total:     len(feedbacks),
	})
}
