package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"draftday/live"
	"draftday/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handles the HTTP API; the snapshot stream carries nothing a
		// polling GET would not, so any origin may subscribe.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	events services.EventService
}

func NewWebSocketHandler(hub *live.Hub, events services.EventService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, events: events}
}

// ServeWs subscribes a client to snapshot pushes for one event.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if _, err := h.events.GetEvent(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed",
			slog.String("event_id", eventID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, eventID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
