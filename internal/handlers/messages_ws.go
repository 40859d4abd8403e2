package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

var inboxUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by the CORS layer for the rest of the
		// surface; browser WebSocket clients cannot set custom headers.
		return true
	},
}

// InboxWebSocket streams new-message events to the authenticated user.
// Authentication uses the session token, via the Authorization header or a
// `token` query parameter for browser clients.
func (h *Handler) InboxWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		writeError(w, apperr.Credential("Missing session token"))
		return
	}

	userID, ok, err := h.Sessions.Validate(r.Context(), token)
	if err != nil {
		writeError(w, apperr.Storage("Failed to validate session", err))
		return
	}
	if !ok {
		writeError(w, apperr.Credential("Invalid or expired session token"))
		return
	}
	if _, err := h.Users.UserByID(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, apperr.Credential("Invalid or expired session token"))
			return
		}
		writeError(w, apperr.Storage("Failed to look up user", err))
		return
	}

	conn, err := inboxUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.Hub.Register(userID, conn)
	defer h.Hub.Unregister(userID, conn)

	// Reader loop: the client sends nothing but pongs and close frames.
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
