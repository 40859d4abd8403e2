package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store/memory"
)

func registerUser(t *testing.T, creds *CredentialService, name, email string) *models.User {
	t.Helper()
	u, err := creds.Register(context.Background(), name, email, "password123")
	require.NoError(t, err)
	return u
}

func TestCreateGroupAddsCreatorAsMember(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	svc := NewMembershipService(st, st)
	ctx := context.Background()

	creator := registerUser(t, creds, "Kovács Anna", "anna@example.com")

	g, err := svc.CreateGroup(ctx, creator.ID, "Matek 9.B", "algebra practice")
	require.NoError(t, err)

	members, err := svc.Members(ctx, g.PublicID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, creator.PublicID, members[0].PublicID)
}

func TestCreateGroupDuplicateName(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	svc := NewMembershipService(st, st)
	ctx := context.Background()

	creator := registerUser(t, creds, "Kovács Anna", "anna@example.com")

	_, err := svc.CreateGroup(ctx, creator.ID, "Matek 9.B", "")
	require.NoError(t, err)

	_, err = svc.CreateGroup(ctx, creator.ID, "matek 9.b", "")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestJoinIsIdempotent(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	svc := NewMembershipService(st, st)
	ctx := context.Background()

	creator := registerUser(t, creds, "Kovács Anna", "anna@example.com")
	joiner := registerUser(t, creds, "Nagy Béla", "bela@example.com")

	g, err := svc.CreateGroup(ctx, creator.ID, "Matek 9.B", "")
	require.NoError(t, err)

	_, err = svc.Join(ctx, g.PublicID, joiner.ID)
	require.NoError(t, err)
	_, err = svc.Join(ctx, g.PublicID, joiner.ID)
	require.NoError(t, err)

	members, err := svc.Members(ctx, g.PublicID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestLeave(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	svc := NewMembershipService(st, st)
	ctx := context.Background()

	creator := registerUser(t, creds, "Kovács Anna", "anna@example.com")
	joiner := registerUser(t, creds, "Nagy Béla", "bela@example.com")

	g, err := svc.CreateGroup(ctx, creator.ID, "Matek 9.B", "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, g.PublicID, joiner.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, g.PublicID, joiner.ID))
	// leaving again is a no-op
	require.NoError(t, svc.Leave(ctx, g.PublicID, joiner.ID))

	members, err := svc.Members(ctx, g.PublicID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	// creator cannot leave their own group
	err = svc.Leave(ctx, g.PublicID, creator.ID)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeleteGroupAuthorization(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	svc := NewMembershipService(st, st)
	ctx := context.Background()

	creator := registerUser(t, creds, "Kovács Anna", "anna@example.com")
	member := registerUser(t, creds, "Nagy Béla", "bela@example.com")

	g, err := svc.CreateGroup(ctx, creator.ID, "Matek 9.B", "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, g.PublicID, member.ID)
	require.NoError(t, err)

	err = svc.DeleteGroup(ctx, g.PublicID, member)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, svc.DeleteGroup(ctx, g.PublicID, creator))

	_, err = svc.Members(ctx, g.PublicID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteGroupByAdmin(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	svc := NewMembershipService(st, st)
	ctx := context.Background()

	creator := registerUser(t, creds, "Kovács Anna", "anna@example.com")
	admin := registerUser(t, creds, "Admin Ágnes", "agnes@example.com")
	admin.Role = models.RoleAdmin

	g, err := svc.CreateGroup(ctx, creator.ID, "Matek 9.B", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup(ctx, g.PublicID, admin))
}

func TestDeleteGroupCascadesTasks(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	groups := NewMembershipService(st, st)
	tasks := NewTaskService(st, st, st, false)
	ctx := context.Background()

	creator := registerUser(t, creds, "Kovács Anna", "anna@example.com")
	g, err := groups.CreateGroup(ctx, creator.ID, "Matek 9.B", "")
	require.NoError(t, err)

	_, err = tasks.Create(ctx, creator.ID, CreateTaskInput{
		GroupID:  g.PublicID.String(),
		Title:    "Dolgozat",
		Type:     "exam",
		Deadline: "2026-10-01T10:00",
	})
	require.NoError(t, err)

	require.NoError(t, groups.DeleteGroup(ctx, g.PublicID, creator))

	_, err = tasks.ListForGroup(ctx, g.PublicID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGroupsForUser(t *testing.T) {
	st := memory.New()
	creds := NewCredentialService(st)
	svc := NewMembershipService(st, st)
	ctx := context.Background()

	u1 := registerUser(t, creds, "Kovács Anna", "anna@example.com")
	u2 := registerUser(t, creds, "Nagy Béla", "bela@example.com")

	g1, err := svc.CreateGroup(ctx, u1.ID, "Matek 9.B", "")
	require.NoError(t, err)
	_, err = svc.CreateGroup(ctx, u2.ID, "Fizika 9.B", "")
	require.NoError(t, err)

	mine, err := svc.GroupsForUser(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, g1.PublicID, mine[0].PublicID)
}
