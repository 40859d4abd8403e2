package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
)

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type GroupResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Group   *models.Group `json:"group,omitempty"`
}

type GroupListResponse struct {
	Success bool            `json:"success"`
	Groups  []*models.Group `json:"groups"`
}

type MemberListResponse struct {
	Success bool           `json:"success"`
	Members []*models.User `json:"members"`
}

// groupIDParam parses the {groupID} route parameter.
func groupIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid group ID")
	}
	return id, nil
}

// CreateGroup creates a study group owned by the authenticated user.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	g, err := h.Membership.CreateGroup(r.Context(), u.ID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, GroupResponse{
		Success: true,
		Message: "Group created",
		Group:   g,
	})
}

// MyGroups lists the groups the authenticated user is a member of.
func (h *Handler) MyGroups(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	groups, err := h.Membership.GroupsForUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	writeJSON(w, http.StatusOK, GroupListResponse{Success: true, Groups: groups})
}

// GroupMembers lists a group's members. Only members see the roster.
func (h *Handler) GroupMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.Membership.Members(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MemberListResponse{Success: true, Members: members})
}

// JoinGroup adds the authenticated user to a group. Already being a member
// is not an error.
func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	groupID, err := groupIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := h.Membership.Join(r.Context(), groupID, u.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupResponse{
		Success: true,
		Message: "Joined group",
		Group:   g,
	})
}

// LeaveGroup removes the authenticated user from a group.
func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	groupID, err := groupIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Membership.Leave(r.Context(), groupID, u.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupResponse{Success: true, Message: "Left group"})
}

// DeleteGroup removes a group with its memberships and tasks. Creator only;
// admins go through the admin surface.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	groupID, err := groupIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Membership.DeleteGroup(r.Context(), groupID, u); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupResponse{Success: true, Message: "Group deleted"})
}
