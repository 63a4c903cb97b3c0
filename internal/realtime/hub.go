// Package realtime implements the presence and push gateway: a process-wide
// registry of open WebSocket sessions keyed by user ID, with fire-and-forget
// event delivery. The stored notification state stays authoritative; a missed
// push is recovered when the client re-polls the REST endpoints.
package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/mehedi83/threads-clone/backend/internal/metrics"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
)

// Event is the wire envelope for both directions of the realtime channel.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Server-to-client event names. Client-to-server: getUnreadCount,
// markMessagesAsSeen.
const (
	EventNewNotification      = "newNotification"
	EventUnreadCount          = "unreadCount"
	EventUnreadCountIncrement = "unreadCountIncrement"
	EventNewMessage           = "newMessage"
	EventMessagesSeen         = "messagesSeen"
	EventOnlineUsers          = "onlineUsers"
)

// Hub owns the user-to-sessions mapping. A user may hold several sessions at
// once (multiple tabs or devices); every push fans out to all of them. The
// map is process-local and never persisted.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Session]struct{}

	notifications repositories.NotificationRepository
	messages      repositories.MessageRepository
}

// NewHub creates a hub. The repositories serve the client-initiated events
// (getUnreadCount, markMessagesAsSeen).
func NewHub(notifications repositories.NotificationRepository, messages repositories.MessageRepository) *Hub {
	return &Hub{
		sessions:      make(map[string]map[*Session]struct{}),
		notifications: notifications,
		messages:      messages,
	}
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	set, ok := h.sessions[s.userID]
	if !ok {
		set = make(map[*Session]struct{})
		h.sessions[s.userID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	h.BroadcastPresence()
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	if set, ok := h.sessions[s.userID]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			close(s.send)
			if len(set) == 0 {
				delete(h.sessions, s.userID)
			}
			metrics.WSConnections.Dec()
		}
	}
	h.mu.Unlock()

	h.BroadcastPresence()
}

// IsOnline reports whether the user has at least one open session. Producers
// use it to decide whether a push is worth attempting; absence means the
// client will pick the state up by polling.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID]) > 0
}

// OnlineUsers returns the IDs of all users with an open session.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		users = append(users, id)
	}
	return users
}

// SendToUser pushes one event to every open session of the user. Delivery is
// at-most-once: an offline user or a full send queue drops the event.
// Returns true if at least one session accepted it.
func (h *Hub) SendToUser(userID, event string, data interface{}) bool {
	payload, err := marshalEvent(event, data)
	if err != nil {
		log.Printf("realtime: marshal %s: %v", event, err)
		return false
	}

	h.mu.RLock()
	set := h.sessions[userID]
	delivered := false
	for s := range set {
		select {
		case s.send <- payload:
			delivered = true
			metrics.EventsPushed.WithLabelValues(event).Inc()
		default:
			metrics.EventsDropped.WithLabelValues(event).Inc()
		}
	}
	offline := len(set) == 0
	h.mu.RUnlock()

	// Full queues were already counted per session above.
	if offline {
		metrics.EventsDropped.WithLabelValues(event).Inc()
	}
	return delivered
}

// BroadcastPresence sends the full online-user list to every session. Full
// list per connectivity change is O(connections) fan-out, fine at this scale.
func (h *Hub) BroadcastPresence() {
	payload, err := marshalEvent(EventOnlineUsers, h.OnlineUsers())
	if err != nil {
		return
	}

	h.mu.RLock()
	for _, set := range h.sessions {
		for s := range set {
			select {
			case s.send <- payload:
				metrics.EventsPushed.WithLabelValues(EventOnlineUsers).Inc()
			default:
				metrics.EventsDropped.WithLabelValues(EventOnlineUsers).Inc()
			}
		}
	}
	h.mu.RUnlock()
}

func marshalEvent(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: event, Data: raw})
}
