package server

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dm/halla-watch/internal/model"
)

const writeTimeout = 5 * time.Second

// Hub keeps the latest payload and pushes every update to websocket clients.
type Hub struct {
	courses []model.Course
	dates   []model.WatchDate
	logger  *log.Logger

	mu      sync.Mutex
	latest  statePayload
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a Hub for the configured watch list.
func NewHub(courses []model.Course, dates []model.WatchDate, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		courses: courses,
		dates:   dates,
		logger:  logger,
		latest:  buildPayload(courses, dates, model.Update{}),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Publish records upd and broadcasts it. It is meant to be passed to
// engine.Monitor.Run as the observer.
func (h *Hub) Publish(upd model.Update) {
	p := buildPayload(h.courses, h.dates, upd)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = p
	h.latest.Alerts = nil
	for conn := range h.clients {
		if err := writePayload(conn, p); err != nil {
			h.logger.Printf("ws client %s dropped: %v", conn.RemoteAddr(), err)
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

// Latest returns the most recent payload without alerts.
func (h *Hub) Latest() statePayload {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

func (h *Hub) add(conn *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := writePayload(conn, h.latest); err != nil {
		return err
	}
	h.clients[conn] = struct{}{}
	return nil
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func writePayload(conn *websocket.Conn, p statePayload) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(p)
}
