// Package memory is an in-memory implementation of the store contracts,
// used by the test suites so ledgers run without Postgres or Mongo. It
// mirrors the persistence semantics that matter: insert-time uniqueness,
// idempotent membership writes, cascade on group delete.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

type membership struct {
	groupID uuid.UUID
	userID  uuid.UUID
}

// Store implements every store interface over maps.
type Store struct {
	mu sync.RWMutex

	users    map[uuid.UUID]*models.User
	groups   map[uuid.UUID]*models.Group
	members  map[membership]int // value is join order
	tasks    map[uuid.UUID]*models.Task
	messages map[string]*models.Message
	feedback []*models.Feedback

	joinSeq    int
	messageSeq int
}

func New() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*models.User),
		groups:   make(map[uuid.UUID]*models.Group),
		members:  make(map[membership]int),
		tasks:    make(map[uuid.UUID]*models.Task),
		messages: make(map[string]*models.Message),
	}
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return &store.DuplicateKeyError{Key: "username"}
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return &store.DuplicateKeyError{Key: "email"}
		}
	}

	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) UserByPublicID(_ context.Context, publicID uuid.UUID) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.PublicID == publicID })
}

func (s *Store) UserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (s *Store) UserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) findUser(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UsersByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *Store) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

// --- groups ---

func (s *Store) CreateGroup(_ context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.groups {
		if strings.EqualFold(existing.Name, g.Name) {
			return &store.DuplicateKeyError{Key: "group name"}
		}
	}

	cp := *g
	s.groups[g.ID] = &cp
	return nil
}

func (s *Store) GroupByID(_ context.Context, id uuid.UUID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *Store) GroupByPublicID(_ context.Context, publicID uuid.UUID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.PublicID == publicID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) AddMember(_ context.Context, groupID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membership{groupID: groupID, userID: userID}
	if _, ok := s.members[key]; !ok {
		s.joinSeq++
		s.members[key] = s.joinSeq
	}
	return nil
}

func (s *Store) RemoveMember(_ context.Context, groupID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, membership{groupID: groupID, userID: userID})
	return nil
}

func (s *Store) IsMember(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[membership{groupID: groupID, userID: userID}]
	return ok, nil
}

func (s *Store) GroupsForUser(_ context.Context, userID uuid.UUID) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var groups []*models.Group
	for key := range s.members {
		if key.userID != userID {
			continue
		}
		if g, ok := s.groups[key.groupID]; ok {
			cp := *g
			groups = append(groups, &cp)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) })
	return groups, nil
}

func (s *Store) Members(_ context.Context, groupID uuid.UUID) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		user  *models.User
		order int
	}
	var entries []entry
	for key, order := range s.members {
		if key.groupID != groupID {
			continue
		}
		if u, ok := s.users[key.userID]; ok {
			cp := *u
			entries = append(entries, entry{user: &cp, order: order})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	members := make([]*models.User, 0, len(entries))
	for _, e := range entries {
		members = append(members, e.user)
	}
	return members, nil
}

func (s *Store) DeleteGroup(_ context.Context, groupID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return store.ErrNotFound
	}
	delete(s.groups, groupID)

	for key := range s.members {
		if key.groupID == groupID {
			delete(s.members, key)
		}
	}
	for id, t := range s.tasks {
		if gid, ok := t.Scope.GroupID(); ok && gid == groupID {
			delete(s.tasks, id)
		}
	}
	return nil
}

// --- tasks ---

func (s *Store) CreateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *Store) TaskByPublicID(_ context.Context, publicID uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.PublicID == publicID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) DeleteTask(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) TasksForOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	return s.filterTasks(func(t *models.Task) bool {
		return t.OwnerID == ownerID && !t.Scope.IsGroup()
	})
}

func (s *Store) TasksForGroup(_ context.Context, groupID uuid.UUID) ([]*models.Task, error) {
	return s.filterTasks(func(t *models.Task) bool {
		gid, ok := t.Scope.GroupID()
		return ok && gid == groupID
	})
}

func (s *Store) filterTasks(match func(*models.Task) bool) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tasks []*models.Task
	for _, t := range s.tasks {
		if match(t) {
			cp := *t
			tasks = append(tasks, &cp)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Deadline.Before(tasks[j].Deadline) })
	return tasks, nil
}

// --- messages ---

func (s *Store) CreateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageSeq++
	m.ID = fmt.Sprintf("%024x", s.messageSeq)
	cp := *m
	s.messages[m.ID] = &cp
	return nil
}

func (s *Store) MessageByID(_ context.Context, id string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) MessagesForUser(_ context.Context, userID uuid.UUID) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var msgs []*models.Message
	for _, m := range s.messages {
		if m.SenderID == userID || m.RecipientID == userID {
			cp := *m
			msgs = append(msgs, &cp)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].SentAt.Equal(msgs[j].SentAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].SentAt.Before(msgs[j].SentAt)
	})
	return msgs, nil
}

func (s *Store) UpdateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[m.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *m
	s.messages[m.ID] = &cp
	return nil
}

func (s *Store) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

// --- feedback ---

func (s *Store) CreateFeedback(_ context.Context, f *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	cp := *f
	s.feedback = append(s.feedback, &cp)
	return nil
}

func (s *Store) ListFeedback(_ context.Context) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Feedback, 0, len(s.feedback))
	for i := len(s.feedback) - 1; i >= 0; i-- {
		cp := *s.feedback[i]
		out = append(out, &cp)
	}
	return out, nil
}

// SetRole promotes or demotes a user directly, the way an operator would
// run an UPDATE against the production database.
func (s *Store) SetRole(userID uuid.UUID, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	return nil
}

func (s *Store) DeleteFeedback(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.feedback {
		if f.ID.Hex() == id {
			s.feedback = append(s.feedback[:i], s.feedback[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
