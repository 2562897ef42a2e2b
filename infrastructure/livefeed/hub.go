package livefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// Event tells a browser that one of its session's collections changed.
type Event struct {
	Collection string `json:"collection"`
	Version    uint64 `json:"version"`
}

type message struct {
	sessionID string
	payload   []byte
}

// Hub fans store updates out to the websocket connections of the session
// that owns the store. Run is the only writer to any connection.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]map[*websocket.Conn]struct{}
	broadcast chan message
	logger    *logrus.Logger
	upgrader  websocket.Upgrader
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:   make(map[string]map[*websocket.Conn]struct{}),
		broadcast: make(chan message, 256),
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Run delivers queued events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			for _, conn := range h.connections(msg.sessionID) {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					h.RemoveClient(msg.sessionID, conn)
				}
			}
		}
	}
}

// Publish queues an event for one session. A full queue drops the event;
// the next update carries a newer version anyway.
func (h *Hub) Publish(sessionID string, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- message{sessionID: sessionID, payload: payload}:
	default:
		h.logger.WithFields(logrus.Fields{"module": "livefeed", "collection": e.Collection}).Warn("live feed queue full, event dropped")
	}
}

func (h *Hub) AddClient(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[sessionID]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		h.clients[sessionID] = set
	}
	set[conn] = struct{}{}
}

func (h *Hub) RemoveClient(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[sessionID]
	if !ok {
		return
	}
	if _, ok := set[conn]; ok {
		delete(set, conn)
		conn.Close()
	}
	if len(set) == 0 {
		delete(h.clients, sessionID)
	}
}

// DropSession closes every connection of a session, e.g. on logout.
func (h *Hub) DropSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[sessionID] {
		conn.Close()
	}
	delete(h.clients, sessionID)
}

func (h *Hub) ClientsCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) connections(sessionID string) []*websocket.Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*websocket.Conn, 0, len(h.clients[sessionID]))
	for conn := range h.clients[sessionID] {
		out = append(out, conn)
	}
	return out
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.clients {
		for conn := range set {
			conn.Close()
		}
		delete(h.clients, id)
	}
}

// Serve upgrades r and keeps the connection registered until the browser
// goes away. Incoming messages are ignored.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithFields(logrus.Fields{"module": "livefeed", "err": err.Error()}).Warn("websocket upgrade failed")
		return
	}
	h.AddClient(sessionID, conn)
	defer h.RemoveClient(sessionID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
