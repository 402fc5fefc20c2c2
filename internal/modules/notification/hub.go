package notification

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quoteme/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub keeps one live websocket per provider and pushes notifications to
// whoever is connected. Delivery is best effort: the durable record is
// the notifications table, the socket is just a nudge.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{connections: make(map[int64]*websocket.Conn)}
}

func (h *Hub) Register(providerID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.connections[providerID]; ok && old != nil {
		_ = old.Close()
	}
	h.connections[providerID] = conn
}

func (h *Hub) Unregister(providerID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[providerID]; ok && conn != nil {
		_ = conn.Close()
		delete(h.connections, providerID)
	}
}

// Push writes the notification to the provider's socket if one is open.
// Returns false when the provider is offline or the write failed; a
// failed socket is dropped so the next push doesn't block on it.
func (h *Hub) Push(providerID int64, n *domain.Notification) bool {
	return h.PushEvent(providerID, n)
}

// PushEvent sends any JSON-serializable payload to the provider.
func (h *Hub) PushEvent(providerID int64, payload any) bool {
	h.mu.RLock()
	conn, ok := h.connections[providerID]
	h.mu.RUnlock()

	if !ok || conn == nil {
		return false
	}
	if err := conn.WriteJSON(payload); err != nil {
		h.Unregister(providerID)
		return false
	}
	return true
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
