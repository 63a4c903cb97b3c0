package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mehedi83/threads-clone/backend/internal/metrics"
	"github.com/mehedi83/threads-clone/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubNotificationRepo satisfies the notification repository with a canned
// unread count.
type stubNotificationRepo struct {
	unread int64
}

func (s *stubNotificationRepo) CreateNotification(context.Context, *models.Notification) error {
	return nil
}

func (s *stubNotificationRepo) GetNotificationByID(context.Context, primitive.ObjectID) (*models.Notification, error) {
	return nil, nil
}

func (s *stubNotificationRepo) GetByRecipient(context.Context, primitive.ObjectID, int64) ([]models.Notification, error) {
	return nil, nil
}

func (s *stubNotificationRepo) GetUnreadCount(context.Context, primitive.ObjectID) (int64, error) {
	return s.unread, nil
}

func (s *stubNotificationRepo) MarkAsRead(context.Context, primitive.ObjectID) error    { return nil }
func (s *stubNotificationRepo) MarkAllAsRead(context.Context, primitive.ObjectID) error { return nil }
func (s *stubNotificationRepo) DeleteNotification(context.Context, primitive.ObjectID) error {
	return nil
}
func (s *stubNotificationRepo) DeleteByPost(context.Context, primitive.ObjectID) error { return nil }
func (s *stubNotificationRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// stubMessageRepo satisfies the message repository with a single canned
// conversation and records mark-seen calls.
type stubMessageRepo struct {
	conversation *models.Conversation
	seenCalls    int
}

func (s *stubMessageRepo) GetOrCreateConversation(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Conversation, error) {
	return s.conversation, nil
}

func (s *stubMessageRepo) GetConversationByID(context.Context, primitive.ObjectID) (*models.Conversation, error) {
	return s.conversation, nil
}

func (s *stubMessageRepo) GetConversationBetween(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Conversation, error) {
	return s.conversation, nil
}

func (s *stubMessageRepo) GetConversationsForUser(context.Context, primitive.ObjectID) ([]models.Conversation, error) {
	return nil, nil
}

func (s *stubMessageRepo) UpdateLastMessage(context.Context, primitive.ObjectID, models.LastMessage) error {
	return nil
}

func (s *stubMessageRepo) CreateMessage(context.Context, *models.Message) error { return nil }

func (s *stubMessageRepo) GetMessages(context.Context, primitive.ObjectID) ([]models.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) MarkMessagesSeen(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	s.seenCalls++
	return nil
}

func newTestHub() *Hub {
	return NewHub(&stubNotificationRepo{}, &stubMessageRepo{})
}

// newTestSession attaches a connection-less session; only the send channel
// is exercised by hub-side delivery.
func newTestSession(h *Hub, userID string, queue int) *Session {
	s := &Session{userID: userID, send: make(chan []byte, queue), hub: h}
	h.register(s)
	return s
}

// recvEvent reads from the session queue until an event with the wanted name
// arrives, skipping interleaved presence broadcasts.
func recvEvent(t *testing.T, s *Session, want string) Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case payload := <-s.send:
			var ev Event
			require.NoError(t, json.Unmarshal(payload, &ev))
			if ev.Event == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %q event received", want)
		}
	}
}

func TestRegisterTracksPresence(t *testing.T) {
	h := newTestHub()
	alice := primitive.NewObjectID().Hex()

	assert.False(t, h.IsOnline(alice))
	s := newTestSession(h, alice, 8)
	assert.True(t, h.IsOnline(alice))
	assert.Equal(t, []string{alice}, h.OnlineUsers())

	h.unregister(s)
	assert.False(t, h.IsOnline(alice))
	assert.Empty(t, h.OnlineUsers())
}

func TestUserStaysOnlineWhileAnySessionRemains(t *testing.T) {
	h := newTestHub()
	alice := primitive.NewObjectID().Hex()

	first := newTestSession(h, alice, 8)
	second := newTestSession(h, alice, 8)

	h.unregister(first)
	assert.True(t, h.IsOnline(alice))

	h.unregister(second)
	assert.False(t, h.IsOnline(alice))
}

func TestSendToUserFansOutToAllSessions(t *testing.T) {
	h := newTestHub()
	alice := primitive.NewObjectID().Hex()
	first := newTestSession(h, alice, 8)
	second := newTestSession(h, alice, 8)

	assert.True(t, h.SendToUser(alice, EventNewMessage, map[string]string{"text": "hi"}))

	for _, s := range []*Session{first, second} {
		ev := recvEvent(t, s, EventNewMessage)
		assert.JSONEq(t, `{"text":"hi"}`, string(ev.Data))
	}
}

func TestSendToOfflineUserDrops(t *testing.T) {
	h := newTestHub()
	assert.False(t, h.SendToUser(primitive.NewObjectID().Hex(), EventNewNotification, "x"))
}

func TestSendToFullQueueDrops(t *testing.T) {
	h := newTestHub()
	alice := primitive.NewObjectID().Hex()
	s := newTestSession(h, alice, 1)

	// fill the single-slot queue; the presence broadcast from register may
	// already occupy it
	for len(s.send) < cap(s.send) {
		s.send <- []byte(`{}`)
	}
	assert.False(t, h.SendToUser(alice, EventNewNotification, "x"))
}

func TestDropIsCountedOncePerFullSession(t *testing.T) {
	h := newTestHub()
	alice := primitive.NewObjectID().Hex()
	s := newTestSession(h, alice, 1)
	for len(s.send) < cap(s.send) {
		s.send <- []byte(`{}`)
	}

	const event = "fullQueueAccounting"
	before := testutil.ToFloat64(metrics.EventsDropped.WithLabelValues(event))
	assert.False(t, h.SendToUser(alice, event, "x"))
	after := testutil.ToFloat64(metrics.EventsDropped.WithLabelValues(event))
	assert.Equal(t, 1.0, after-before)
}

func TestDropIsCountedOnceWhenOffline(t *testing.T) {
	h := newTestHub()

	const event = "offlineAccounting"
	before := testutil.ToFloat64(metrics.EventsDropped.WithLabelValues(event))
	assert.False(t, h.SendToUser(primitive.NewObjectID().Hex(), event, "x"))
	after := testutil.ToFloat64(metrics.EventsDropped.WithLabelValues(event))
	assert.Equal(t, 1.0, after-before)
}

func TestPresenceBroadcastOnConnectivityChange(t *testing.T) {
	h := newTestHub()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	aliceSession := newTestSession(h, alice, 8)
	newTestSession(h, bob, 8)

	// the broadcast triggered by bob's arrival includes both users
	var users []string
	for {
		ev := recvEvent(t, aliceSession, EventOnlineUsers)
		require.NoError(t, json.Unmarshal(ev.Data, &users))
		if len(users) == 2 {
			break
		}
	}
	assert.ElementsMatch(t, []string{alice, bob}, users)
}

func TestUnregisterClosesSendQueue(t *testing.T) {
	h := newTestHub()
	alice := primitive.NewObjectID().Hex()
	s := newTestSession(h, alice, 8)

	h.unregister(s)
	// drain buffered presence events until the closed channel is observed
	for {
		if _, ok := <-s.send; !ok {
			break
		}
	}

	// unregistering twice is a no-op
	h.unregister(s)
}

func TestGetUnreadCountEvent(t *testing.T) {
	notifs := &stubNotificationRepo{unread: 7}
	h := NewHub(notifs, &stubMessageRepo{})
	alice := primitive.NewObjectID().Hex()
	s := newTestSession(h, alice, 8)

	s.handleEvent(Event{Event: "getUnreadCount"})

	ev := recvEvent(t, s, EventUnreadCount)
	assert.JSONEq(t, `7`, string(ev.Data))
}

func TestMarkMessagesAsSeenNotifiesOtherParticipant(t *testing.T) {
	reader := primitive.NewObjectID()
	other := primitive.NewObjectID()
	conversation := &models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{reader, other},
	}
	messages := &stubMessageRepo{conversation: conversation}
	h := NewHub(&stubNotificationRepo{}, messages)

	readerSession := newTestSession(h, reader.Hex(), 8)
	otherSession := newTestSession(h, other.Hex(), 8)

	data, err := json.Marshal(map[string]string{"conversationId": conversation.ID.Hex()})
	require.NoError(t, err)
	readerSession.handleEvent(Event{Event: "markMessagesAsSeen", Data: data})

	assert.Equal(t, 1, messages.seenCalls)
	ev := recvEvent(t, otherSession, EventMessagesSeen)
	assert.JSONEq(t, `{"conversationId":"`+conversation.ID.Hex()+`"}`, string(ev.Data))
}
