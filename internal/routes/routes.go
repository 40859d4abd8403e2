package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/TheBeanyx/E-ceruza/internal/handlers"
)

func SetupRoutes(r *chi.Mux, h *handlers.Handler) {
	// Auth routes
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/logout", h.Logout)
	r.Get("/api/auth/me", h.Me)

	// Group routes
	r.Post("/api/groups", h.CreateGroup)
	r.Get("/api/groups/mine", h.MyGroups)
	r.Get("/api/groups/{groupID}/members", h.GroupMembers)
	r.Get("/api/groups/{groupID}/tasks", h.GroupTasks)
	r.Post("/api/groups/{groupID}/join", h.JoinGroup)
	r.Post("/api/groups/{groupID}/leave", h.LeaveGroup)
	r.Delete("/api/groups/{groupID}", h.DeleteGroup)

	// Task routes
	r.Post("/api/tasks", h.CreateTask)
	r.Get("/api/tasks/mine", h.MyTasks)
	r.Delete("/api/tasks/{taskID}", h.DeleteTask)

	// Message routes
	r.Post("/api/messages", h.SendMessage)
	r.Get("/api/messages", h.MyMessages)
	r.Put("/api/messages/{messageID}/read", h.MarkMessageRead)
	r.Delete("/api/messages/{messageID}", h.DeleteMessage)
	r.Get("/ws/inbox", h.InboxWebSocket)

	// Feedback routes
	r.Post("/api/feedback", h.SubmitFeedback)

	// Admin routes
	r.Get("/api/admin/users", h.ListUsers)
	r.Delete("/api/admin/groups/{groupID}", h.AdminDeleteGroup)
	r.Get("/api/admin/feedbacks", h.ListFeedback)
	r.Delete("/api/admin/feedbacks/{feedbackID}", h.DeleteFeedback)
}
