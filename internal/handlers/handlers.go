package handlers

import (
	"github.com/TheBeanyx/E-ceruza/internal/services"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

// Handler bundles the services behind the HTTP surface. Everything is
// injected so tests can run the whole surface against in-memory stores.
type Handler struct {
	Credentials *services.CredentialService
	Membership  *services.MembershipService
	Tasks       *services.TaskService
	Messages    *services.MessageService
	Sessions    services.SessionStore
	Users       store.UserStore
	Feedback    store.FeedbackStore
	Hub         *services.InboxHub
}
