// Package live pushes fresh event snapshots to connected browsers over
// websockets. It is an acceleration layer only: clients keep polling the
// HTTP API and lose nothing when the socket drops, so the hub makes no
// delivery or ordering promises.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"draftday/models"
)

type Message struct {
	Type    string      `json:"type"`
	EventID string      `json:"eventId,omitempty"`
	Payload interface{} `json:"payload"`
}

const TypeEventUpdated = "EVENT_UPDATED"

// Hub fans event snapshots out to per-event rooms.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()
			h.logger.Debug("live client registered", slog.String("event_id", client.room))

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if clients[client] {
					delete(clients, client)
					client.closeSend()
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("live client unregistered", slog.String("event_id", client.room))
		}
	}
}

// BroadcastEvent sends the committed snapshot to everyone watching the
// event. Slow clients are skipped, not waited for; their next poll catches
// them up.
func (h *Hub) BroadcastEvent(event *models.EventSession) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[event.ID]
	if !ok {
		return
	}

	data, err := json.Marshal(Message{
		Type:    TypeEventUpdated,
		EventID: event.ID,
		Payload: event,
	})
	if err != nil {
		h.logger.Error("failed to marshal event snapshot", slog.Any("error", err))
		return
	}

	for client := range clients {
		client.trySend(data)
	}
}
