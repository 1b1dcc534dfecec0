package events

import (
	"net/http"

	"github.com/gorilla/websocket"

	"leadpilot-backend/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, restrict to configured origins.
		return true
	},
}

// Handle authenticates the handshake with the same JWT the REST routes use.
// Browsers cannot set the Authorization header on a websocket upgrade, so the
// token rides in the query string.
func Handle(h *Hub, jwt *auth.JWT, w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if _, err := jwt.Parse(tok); err != nil { http.Error(w, "invalid token", http.StatusUnauthorized); return }

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil { return }
	c := newClient(h, conn)
	h.Join(c)
	go c.writePump()
	go c.readPump()
}
