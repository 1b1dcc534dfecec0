package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesJoinedClients(t *testing.T) {
	h := NewHub()
	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Join(c)

	h.Broadcast(LeadCreated, map[string]string{"name": "Ann"})

	require.Len(t, c.send, 1)
	var ev Event
	require.NoError(t, json.Unmarshal(<-c.send, &ev))
	assert.Equal(t, LeadCreated, ev.Type)
}

func TestBroadcastAfterLeave(t *testing.T) {
	h := NewHub()
	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Join(c)
	h.Leave(c)

	h.Broadcast(LeadDeleted, map[string]int64{"id": 3})

	assert.Empty(t, c.send)
}
