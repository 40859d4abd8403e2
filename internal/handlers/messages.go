package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
)

type SendMessageRequest struct {
	Recipient string `json:"recipient"` // recipient's username
	Content   string `json:"content"`
}

type MessageResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Sent    *models.Message `json:"sent,omitempty"`
}

type MessageListResponse struct {
	Success  bool                 `json:"success"`
	Messages []models.MessageView `json:"messages"`
}

// SendMessage delivers a direct message to a user identified by username.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	m, err := h.Messages.Send(r.Context(), u.ID, req.Recipient, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Success: true,
		Message: "Message sent",
		Sent:    m,
	})
}

// MyMessages returns the user's merged inbox and outbox, oldest first.
func (h *Handler) MyMessages(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	views, err := h.Messages.ListForUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if views == nil {
		views = []models.MessageView{}
	}

	writeJSON(w, http.StatusOK, MessageListResponse{Success: true, Messages: views})
}

// MarkMessageRead flags a received message as read.
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Messages.MarkRead(r.Context(), chi.URLParam(r, "messageID"), u.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Message marked as read"})
}

// DeleteMessage hides a message for the requesting party only.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Messages.Delete(r.Context(), chi.URLParam(r, "messageID"), u.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Message deleted"})
}
