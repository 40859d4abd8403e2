package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/services"
)

type CreateTaskRequest struct {
	GroupID      string `json:"group_id,omitempty"` // empty means personal
	Title        string `json:"title"`
	Type         string `json:"type"`
	Deadline     string `json:"deadline"`
	ReminderDays int    `json:"reminder_days"`
	Description  string `json:"description,omitempty"`
	Link         string `json:"online_link,omitempty"`
}

type TaskResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Task    *models.Task `json:"task,omitempty"`
}

type TaskListResponse struct {
	Success bool           `json:"success"`
	Tasks   []*models.Task `json:"tasks"`
}

// CreateTask creates a personal or group task owned by the authenticated
// user. A group task requires membership.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	if req.GroupID != "" {
		groupID, err := uuid.Parse(req.GroupID)
		if err != nil {
			writeError(w, apperr.Validation("Invalid group ID"))
			return
		}
		member, err := h.Membership.IsMember(r.Context(), groupID, u.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !member {
			writeError(w, apperr.Forbidden("You must be a member of this group"))
			return
		}
	}

	t, err := h.Tasks.Create(r.Context(), u.ID, services.CreateTaskInput{
		GroupID:      req.GroupID,
		Title:        req.Title,
		Type:         req.Type,
		Deadline:     req.Deadline,
		ReminderDays: req.ReminderDays,
		Description:  req.Description,
		Link:         req.Link,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, TaskResponse{
		Success: true,
		Message: "Task created",
		Task:    t,
	})
}

// MyTasks lists the authenticated user's personal tasks, closest deadline
// first. Group tasks are fetched per group.
func (h *Handler) MyTasks(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListForUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	writeJSON(w, http.StatusOK, TaskListResponse{Success: true, Tasks: tasks})
}

// GroupTasks lists a group's tasks. Members only.
func (h *Handler) GroupTasks(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	groupID, err := groupIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	member, err := h.Membership.IsMember(r.Context(), groupID, u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !member && !u.IsAdmin() {
		writeError(w, apperr.Forbidden("You must be a member of this group"))
		return
	}

	tasks, err := h.Tasks.ListForGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	writeJSON(w, http.StatusOK, TaskListResponse{Success: true, Tasks: tasks})
}

// DeleteTask removes a task the user is allowed to delete.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid task ID"))
		return
	}

	if err := h.Tasks.Delete(r.Context(), taskID, u); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TaskResponse{Success: true, Message: "Task deleted"})
}
