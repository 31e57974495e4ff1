package watch

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/mtharp/twentyone/gann"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	pollTimeout  = 15 * time.Second
	clientQueue  = 16
)

// Hub publishes training progress to websocket subscribers and long-polling
// HTTP clients.
type Hub struct {
	mu      sync.Mutex
	cur     *gann.EpochStats
	clients map[*websocket.Conn]chan gann.EpochStats
	waiters map[*http.Request]chan struct{}

	upgrader    websocket.Upgrader
	// for tests
	pollTimeout time.Duration
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*websocket.Conn]chan gann.EpochStats),
		waiters:     make(map[*http.Request]chan struct{}),
		upgrader:    websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		pollTimeout: pollTimeout,
	}
}

func (h *Hub) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(rw http.ResponseWriter, req *http.Request) {
		writeJSON(rw, map[string]bool{"ok": true})
	})
	r.Get("/current", h.viewCurrent)
	r.Get("/ws", h.serveWS)
	return r
}

// Publish records es as the current epoch and sends it to every subscriber.
// Subscribers that fall behind miss epochs rather than stall training.
func (h *Hub) Publish(es gann.EpochStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = &es
	for _, waitch := range h.waiters {
		select {
		case waitch <- struct{}{}:
		default:
		}
	}
	for _, ch := range h.clients {
		select {
		case ch <- es:
		default:
		}
	}
}

// Clients returns the number of connected websocket subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) current() *gann.EpochStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur
}

func writeJSON(rw http.ResponseWriter, v interface{}) {
	blob, err := json.Marshal(v)
	if err != nil {
		http.Error(rw, err.Error(), 500)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.Write(blob)
}

func (h *Hub) serveWS(rw http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(rw, req, nil)
	if err != nil {
		log.Printf("error: websocket upgrade: %s", err)
		return
	}
	ch := make(chan gann.EpochStats, clientQueue)
	h.mu.Lock()
	h.clients[conn] = ch
	cur := h.cur
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()
	donech := make(chan struct{})
	go discardReads(conn, donech)
	if cur != nil {
		if err := writeEpoch(conn, *cur); err != nil {
			return
		}
	}
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-donech:
			return
		case es := <-ch:
			if err := writeEpoch(conn, es); err != nil {
				return
			}
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func writeEpoch(conn *websocket.Conn, es gann.EpochStats) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(es)
}

// discardReads services control frames until the peer goes away.
func discardReads(conn *websocket.Conn, donech chan struct{}) {
	defer close(donech)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
