package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	LeadCreated = "lead.created"
	LeadUpdated = "lead.updated"
	LeadDeleted = "lead.deleted"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans lead events out to every connected dashboard client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub { return &Hub{clients: make(map[*Client]bool)} }

func (h *Hub) Join(c *Client) {
	h.mu.Lock(); defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) Leave(c *Client) {
	h.mu.Lock(); defer h.mu.Unlock()
	delete(h.clients, c)
}

// Broadcast drops clients whose send buffer is full rather than blocking a
// request handler on a slow websocket.
func (h *Hub) Broadcast(typ string, data any) {
	b, err := json.Marshal(Event{Type: typ, Data: data})
	if err != nil { return }
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients))
	for c := range h.clients { conns = append(conns, c) }
	h.mu.RUnlock()
	for _, c := range conns {
		select {
		case c.send <- b:
		default:
			go c.Close()
		}
	}
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)
