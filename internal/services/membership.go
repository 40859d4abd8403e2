package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

// MembershipService owns study groups and the user-group relation.
type MembershipService struct {
	groups store.GroupStore
	users  store.UserStore
}

func NewMembershipService(groups store.GroupStore, users store.UserStore) *MembershipService {
	return &MembershipService{groups: groups, users: users}
}

// CreateGroup creates a group and adds the creator as its first member, so
// the group never exists without a member.
func (s *MembershipService) CreateGroup(ctx context.Context, creatorID uuid.UUID, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Group name is required")
	}

	if _, err := s.users.UserByID(ctx, creatorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage("Failed to look up user", err)
	}

	g := &models.Group{
		ID:          uuid.New(),
		PublicID:    uuid.New(),
		CreatedAt:   time.Now().UTC(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
	}

	if err := s.groups.CreateGroup(ctx, g); err != nil {
		if store.IsDuplicate(err, "group name") {
			return nil, apperr.Conflict("A group with this name already exists")
		}
		return nil, apperr.Storage("Failed to create group", err)
	}

	if err := s.groups.AddMember(ctx, g.ID, creatorID); err != nil {
		return nil, apperr.Storage("Failed to add creator to group", err)
	}
	return g, nil
}

// Join adds a user to a group. Joining a group the user is already in
// succeeds without creating a second membership row.
func (s *MembershipService) Join(ctx context.Context, groupPublicID, userID uuid.UUID) (*models.Group, error) {
	g, err := s.resolveGroup(ctx, groupPublicID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.UserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage("Failed to look up user", err)
	}
	if err := s.groups.AddMember(ctx, g.ID, userID); err != nil {
		return nil, apperr.Storage("Failed to join group", err)
	}
	return g, nil
}

// Leave removes a user's membership. Leaving a group the user is not in is
// a no-op; the creator cannot leave, only delete the group, so the group
// never drops to zero members while it exists.
func (s *MembershipService) Leave(ctx context.Context, groupPublicID, userID uuid.UUID) error {
	g, err := s.resolveGroup(ctx, groupPublicID)
	if err != nil {
		return err
	}
	if g.CreatorID == userID {
		return apperr.Validation("The group creator cannot leave; delete the group instead")
	}
	if err := s.groups.RemoveMember(ctx, g.ID, userID); err != nil {
		return apperr.Storage("Failed to leave group", err)
	}
	return nil
}

func (s *MembershipService) GroupsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Group, error) {
	groups, err := s.groups.GroupsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("Failed to list groups", err)
	}
	return groups, nil
}

func (s *MembershipService) Members(ctx context.Context, groupPublicID uuid.UUID) ([]*models.User, error) {
	g, err := s.resolveGroup(ctx, groupPublicID)
	if err != nil {
		return nil, err
	}
	members, err := s.groups.Members(ctx, g.ID)
	if err != nil {
		return nil, apperr.Storage("Failed to list members", err)
	}
	return members, nil
}

// IsMember reports membership using the group's public id.
func (s *MembershipService) IsMember(ctx context.Context, groupPublicID, userID uuid.UUID) (bool, error) {
	g, err := s.resolveGroup(ctx, groupPublicID)
	if err != nil {
		return false, err
	}
	ok, err := s.groups.IsMember(ctx, g.ID, userID)
	if err != nil {
		return false, apperr.Storage("Failed to check membership", err)
	}
	return ok, nil
}

// DeleteGroup removes the group, its memberships and every task scoped to
// it. Only the creator or an admin may delete.
func (s *MembershipService) DeleteGroup(ctx context.Context, groupPublicID uuid.UUID, requester *models.User) error {
	g, err := s.resolveGroup(ctx, groupPublicID)
	if err != nil {
		return err
	}
	if g.CreatorID != requester.ID && !requester.IsAdmin() {
		return apperr.Forbidden("Only the group creator can delete this group")
	}
	if err := s.groups.DeleteGroup(ctx, g.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Group not found")
		}
		return apperr.Storage("Failed to delete group", err)
	}
	return nil
}

func (s *MembershipService) resolveGroup(ctx context.Context, publicID uuid.UUID) (*models.Group, error) {
	g, err := s.groups.GroupByPublicID(ctx, publicID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Group not found")
	}
	if err != nil {
		return nil, apperr.Storage("Failed to look up group", err)
	}
	return g, nil
}
