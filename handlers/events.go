// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/votaciones-pe/sufragio/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Demo deployment; the admin console runs on a different origin.
		return true
	},
}

// EventMessage is what subscribers receive. Events carry no payload;
// clients re-fetch the relevant endpoint in full.
type EventMessage struct {
	Type string `json:"type"`
}

const wsPingInterval = 30 * time.Second

type EventsHandler struct {
	bus *events.Bus
}

func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream handles GET /admin/events. It upgrades to a websocket and
// forwards every change notification from the bus until the client
// disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket connection", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("events client connected", "remote", r.RemoteAddr)

	ch, cancel := h.bus.Subscribe()
	defer cancel()

	// Reader goroutine: we send no data expectations to the client,
	// but reading is what surfaces close frames and errors.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case topic, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(EventMessage{Type: string(topic)}); err != nil {
				slog.Warn("failed to write event, dropping client", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-done:
			slog.Info("events client disconnected", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		}
	}
}
