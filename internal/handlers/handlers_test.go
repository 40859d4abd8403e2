package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBeanyx/E-ceruza/internal/handlers"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/routes"
	"github.com/TheBeanyx/E-ceruza/internal/services"
	"github.com/TheBeanyx/E-ceruza/internal/store/memory"
)

type testEnv struct {
	router *chi.Mux
	store  *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.New()
	hub := services.NewInboxHub(nil)

	h := &handlers.Handler{
		Credentials: services.NewCredentialService(st),
		Membership:  services.NewMembershipService(st, st),
		Tasks:       services.NewTaskService(st, st, st, false),
		Messages:    services.NewMessageService(st, st, hub),
		Sessions:    memory.NewSessions(),
		Users:       st,
		Feedback:    st,
		Hub:         hub,
	}

	r := chi.NewRouter()
	routes.SetupRoutes(r, h)
	return &testEnv{router: r, store: st}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// register creates an account and logs it in, returning the user payload
// and a session token.
func (e *testEnv) register(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", handlers.RegisterRequest{
		Name: name, Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[handlers.AuthResponse](t, rec)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", handlers.LoginRequest{
		Username: reg.User.Username, Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[handlers.AuthResponse](t, rec)
	require.NotEmpty(t, login.Token)

	return login.User, login.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", handlers.RegisterRequest{
		Name: "Kovács Anna", Email: "anna@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[handlers.AuthResponse](t, rec)
	assert.Regexp(t, `^anna_kovacs\d{2}$`, reg.User.Username)

	// wrong password
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", handlers.LoginRequest{
		Username: reg.User.Username, Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// correct password, by email
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", handlers.LoginRequest{
		Username: "anna@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[handlers.AuthResponse](t, rec)
	assert.Equal(t, reg.User.PublicID, login.User.PublicID)

	// me
	rec = env.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[handlers.AuthResponse](t, rec)
	assert.Equal(t, reg.User.Username, me.User.Username)

	// logout kills the session
	rec = env.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Kovács Anna", "anna@example.com")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", handlers.RegisterRequest{
		Name: "Nagy Anna", Email: "anna@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/groups"},
		{http.MethodGet, "/api/groups/mine"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/mine"},
		{http.MethodPost, "/api/messages"},
		{http.MethodGet, "/api/messages"},
		{http.MethodGet, "/api/admin/users"},
	} {
		rec := env.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestGroupLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, creatorTok := env.register(t, "Kovács Anna", "anna@example.com")
	_, joinerTok := env.register(t, "Nagy Béla", "bela@example.com")

	rec := env.do(t, http.MethodPost, "/api/groups", creatorTok, handlers.CreateGroupRequest{
		Name: "Matek 9.B", Description: "algebra practice",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[handlers.GroupResponse](t, rec)
	groupID := created.Group.PublicID.String()

	// duplicate name
	rec = env.do(t, http.MethodPost, "/api/groups", joinerTok, handlers.CreateGroupRequest{Name: "Matek 9.B"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// join
	rec = env.do(t, http.MethodPost, "/api/groups/"+groupID+"/join", joinerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// members visible to members
	rec = env.do(t, http.MethodGet, "/api/groups/"+groupID+"/members", joinerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[handlers.MemberListResponse](t, rec)
	assert.Len(t, members.Members, 2)

	// joiner's group list
	rec = env.do(t, http.MethodGet, "/api/groups/mine", joinerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[handlers.GroupListResponse](t, rec)
	require.Len(t, mine.Groups, 1)
	assert.Equal(t, "Matek 9.B", mine.Groups[0].Name)

	// leave
	rec = env.do(t, http.MethodPost, "/api/groups/"+groupID+"/leave", joinerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/groups/"+groupID+"/members", joinerTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// only the creator may delete
	rec = env.do(t, http.MethodDelete, "/api/groups/"+groupID, joinerTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/groups/"+groupID, creatorTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskSurface(t *testing.T) {
	env := newTestEnv(t)
	_, ownerTok := env.register(t, "Kovács Anna", "anna@example.com")
	_, otherTok := env.register(t, "Nagy Béla", "bela@example.com")

	rec := env.do(t, http.MethodPost, "/api/groups", ownerTok, handlers.CreateGroupRequest{Name: "Matek 9.B"})
	require.Equal(t, http.StatusCreated, rec.Code)
	group := decode[handlers.GroupResponse](t, rec)
	groupID := group.Group.PublicID.String()

	// non-member cannot add a group task
	rec = env.do(t, http.MethodPost, "/api/tasks", otherTok, handlers.CreateTaskRequest{
		GroupID: groupID, Title: "Dolgozat", Type: "exam", Deadline: "2026-10-01T10:00",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// member creates group and personal tasks
	rec = env.do(t, http.MethodPost, "/api/tasks", ownerTok, handlers.CreateTaskRequest{
		GroupID: groupID, Title: "Dolgozat", Type: "exam", Deadline: "2026-10-01T10:00", ReminderDays: 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, "/api/tasks", ownerTok, handlers.CreateTaskRequest{
		Title: "Házi", Type: "homework", Deadline: "2026-10-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	personal := decode[handlers.TaskResponse](t, rec)

	// personal list holds only the personal task
	rec = env.do(t, http.MethodGet, "/api/tasks/mine", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[handlers.TaskListResponse](t, rec)
	require.Len(t, mine.Tasks, 1)
	assert.Equal(t, "Házi", mine.Tasks[0].Title)

	// group list holds the shared task, members only
	rec = env.do(t, http.MethodGet, "/api/groups/"+groupID+"/tasks", ownerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	shared := decode[handlers.TaskListResponse](t, rec)
	require.Len(t, shared.Tasks, 1)
	assert.Equal(t, "Dolgozat", shared.Tasks[0].Title)

	rec = env.do(t, http.MethodGet, "/api/groups/"+groupID+"/tasks", otherTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// only the owner can delete a personal task
	taskID := personal.Task.PublicID.String()
	rec = env.do(t, http.MethodDelete, "/api/tasks/"+taskID, otherTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/tasks/"+taskID, ownerTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// bad deadline is a 400
	rec = env.do(t, http.MethodPost, "/api/tasks", ownerTok, handlers.CreateTaskRequest{
		Title: "t", Type: "exam", Deadline: "sometime",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessageSurface(t *testing.T) {
	env := newTestEnv(t)
	u1, tok1 := env.register(t, "Kovács Anna", "anna@example.com")
	u2, tok2 := env.register(t, "Nagy Béla", "bela@example.com")

	rec := env.do(t, http.MethodPost, "/api/messages", tok1, handlers.SendMessageRequest{
		Recipient: u2.Username, Content: "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decode[handlers.MessageResponse](t, rec)
	msgID := sent.Sent.ID

	// sender sees direction=sent, recipient direction=received
	rec = env.do(t, http.MethodGet, "/api/messages", tok1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	outbox := decode[handlers.MessageListResponse](t, rec)
	require.Len(t, outbox.Messages, 1)
	assert.Equal(t, models.DirectionSent, outbox.Messages[0].Direction)
	assert.Equal(t, u2.Username, outbox.Messages[0].Counterparty)

	rec = env.do(t, http.MethodGet, "/api/messages", tok2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inbox := decode[handlers.MessageListResponse](t, rec)
	require.Len(t, inbox.Messages, 1)
	assert.Equal(t, models.DirectionReceived, inbox.Messages[0].Direction)
	assert.Equal(t, u1.Username, inbox.Messages[0].Counterparty)

	// only the recipient marks read
	rec = env.do(t, http.MethodPut, "/api/messages/"+msgID+"/read", tok1, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodPut, "/api/messages/"+msgID+"/read", tok2, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// sender-side delete leaves the recipient's view intact
	rec = env.do(t, http.MethodDelete, "/api/messages/"+msgID, tok1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/messages", tok1, nil)
	assert.Empty(t, decode[handlers.MessageListResponse](t, rec).Messages)
	rec = env.do(t, http.MethodGet, "/api/messages", tok2, nil)
	assert.Len(t, decode[handlers.MessageListResponse](t, rec).Messages, 1)

	// self-send rejected
	rec = env.do(t, http.MethodPost, "/api/messages", tok1, handlers.SendMessageRequest{
		Recipient: u1.Username, Content: "echo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown recipient
	rec = env.do(t, http.MethodPost, "/api/messages", tok1, handlers.SendMessageRequest{
		Recipient: "nobody99", Content: "hello",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackSurface(t *testing.T) {
	env := newTestEnv(t)

	// too short
	rec := env.do(t, http.MethodPost, "/api/feedback", "", handlers.SubmitFeedbackRequest{Feedback: "meh"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/feedback", "", handlers.SubmitFeedbackRequest{
		Feedback: "The planner helped me pass algebra.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// listing requires an admin
	_, studentTok := env.register(t, "Kovács Anna", "anna@example.com")
	rec = env.do(t, http.MethodGet, "/api/admin/feedbacks", studentTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminTok := env.registerAdmin(t, "Admin Ágnes", "agnes@example.com")
	rec = env.do(t, http.MethodGet, "/api/admin/feedbacks", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[handlers.FeedbackListResponse](t, rec)
	require.Equal(t, 1, list.Total)

	rec = env.do(t, http.MethodDelete, "/api/admin/feedbacks/"+list.Feedbacks[0].ID.Hex(), adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminSurface(t *testing.T) {
	env := newTestEnv(t)
	_, creatorTok := env.register(t, "Kovács Anna", "anna@example.com")
	adminTok := env.registerAdmin(t, "Admin Ágnes", "agnes@example.com")

	rec := env.do(t, http.MethodPost, "/api/groups", creatorTok, handlers.CreateGroupRequest{Name: "Matek 9.B"})
	require.Equal(t, http.StatusCreated, rec.Code)
	group := decode[handlers.GroupResponse](t, rec)

	// role, not username, gates the admin surface
	rec = env.do(t, http.MethodGet, "/api/admin/users", creatorTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/users", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[handlers.UserListResponse](t, rec)
	assert.Equal(t, 2, users.Total)

	// an admin may delete any group
	rec = env.do(t, http.MethodDelete, "/api/admin/groups/"+group.Group.PublicID.String(), adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// registerAdmin registers a user, promotes it directly in the store and
// returns a fresh session token.
func (e *testEnv) registerAdmin(t *testing.T, name, email string) string {
	t.Helper()

	u, token := e.register(t, name, email)

	users, err := e.store.ListUsers(context.Background())
	require.NoError(t, err)
	for _, stored := range users {
		if stored.PublicID == u.PublicID {
			require.NoError(t, e.store.SetRole(stored.ID, models.RoleAdmin))
			return token
		}
	}
	t.Fatalf("user %s not found in store", u.Username)
	return ""
}
