package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 45 * time.Second
	maxMessageSize = 4096
	sendQueueSize  = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Session is one open WebSocket connection belonging to a user. Writes go
// through the buffered send channel and a single writer goroutine; the hub
// never writes to the connection directly.
type Session struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

// ServeWS upgrades the request and runs the session until disconnect. The
// client supplies its user identity as the userId query parameter; there is
// no cryptographic tie to the HTTP session.
func (h *Hub) ServeWS(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId query parameter is required")
	}
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid userId")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("realtime: upgrade failed: %v", err)
		return err
	}

	s := &Session{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		hub:    h,
	}
	h.register(s)

	go s.writePump()
	s.readPump()
	return nil
}

func (s *Session) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: read error for %s: %v", s.userID, err)
			}
			return
		}
		s.handleEvent(ev)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleEvent dispatches a client-initiated event.
func (s *Session) handleEvent(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch ev.Event {
	case "getUnreadCount":
		recipient, err := primitive.ObjectIDFromHex(s.userID)
		if err != nil {
			return
		}
		count, err := s.hub.notifications.GetUnreadCount(ctx, recipient)
		if err != nil {
			log.Printf("realtime: unread count for %s: %v", s.userID, err)
			return
		}
		s.hub.SendToUser(s.userID, EventUnreadCount, count)

	case "markMessagesAsSeen":
		var data struct {
			ConversationID string `json:"conversationId"`
		}
		if err := json.Unmarshal(ev.Data, &data); err != nil {
			return
		}
		conversationID, err := primitive.ObjectIDFromHex(data.ConversationID)
		if err != nil {
			return
		}
		readerID, err := primitive.ObjectIDFromHex(s.userID)
		if err != nil {
			return
		}

		conversation, err := s.hub.messages.GetConversationByID(ctx, conversationID)
		if err != nil {
			return
		}
		if err := s.hub.messages.MarkMessagesSeen(ctx, conversationID, readerID); err != nil {
			log.Printf("realtime: mark seen in %s: %v", data.ConversationID, err)
			return
		}
		// Tell the other participant their messages were seen.
		for _, p := range conversation.Participants {
			if p != readerID {
				s.hub.SendToUser(p.Hex(), EventMessagesSeen, map[string]string{
					"conversationId": data.ConversationID,
				})
			}
		}
	}
}
