package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mehedi83/threads-clone/backend/internal/media"
	"github.com/mehedi83/threads-clone/backend/internal/models"
	"github.com/mehedi83/threads-clone/backend/internal/realtime"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler handles HTTP requests related to direct messages
type MessageHandler struct {
	messageRepository      repositories.MessageRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
	media                  *media.Client
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, hub *realtime.Hub, mediaClient *media.Client) *MessageHandler {
	return &MessageHandler{
		messageRepository:      messageRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
		media:                  mediaClient,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/:otherUserId", h.GetMessages)
	g.POST("", h.SendMessage)
}

// SendMessage persists a direct message and pushes it to the recipient when
// they are online. Offline recipients get a message notification instead.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipient ID")
	}
	if recipientID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}

	ctx := c.Request().Context()
	recipient, err := h.userRepository.GetUserByID(ctx, recipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
	}
	if recipient.HasBlocked(currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot message this user")
	}

	img := req.Img
	if img != "" {
		if img, err = h.media.Upload(ctx, img, "threads/messages"); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	conversation, err := h.messageRepository.GetOrCreateConversation(ctx, currentUserID, recipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		Sender:         currentUserID,
		Text:           req.Message,
		Img:            img,
	}
	if err := h.messageRepository.CreateMessage(ctx, message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	last := models.LastMessage{Text: req.Message, Sender: currentUserID, Seen: false}
	if err := h.messageRepository.UpdateLastMessage(ctx, conversation.ID, last); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.deliverOrNotify(ctx, message, recipientID)

	return c.JSON(http.StatusCreated, message)
}

// deliverOrNotify pushes newMessage to an online recipient, or leaves a
// message notification for an offline one. Never both.
func (h *MessageHandler) deliverOrNotify(ctx context.Context, message *models.Message, recipientID primitive.ObjectID) {
	recipientHex := recipientID.Hex()
	if h.hub.IsOnline(recipientHex) {
		h.hub.SendToUser(recipientHex, realtime.EventNewMessage, message)
		h.hub.SendToUser(recipientHex, realtime.EventUnreadCountIncrement, echo.Map{"by": 1})
		return
	}

	sender, err := h.userRepository.GetUserByID(ctx, message.Sender)
	if err != nil {
		return
	}
	createAndPushNotification(ctx, h.notificationRepository, h.hub, &models.Notification{
		Recipient: recipientID,
		Sender:    message.Sender,
		Type:      models.NotificationMessage,
		Message:   message.ID,
		Text:      sender.Username + " sent you a message",
	})
}

// GetMessages returns the conversation history with another user, oldest
// first
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherUserID, err := primitive.ObjectIDFromHex(c.Param("otherUserId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	ctx := c.Request().Context()
	conversation, err := h.messageRepository.GetConversationBetween(ctx, currentUserID, otherUserID)
	if err != nil {
		if err == repositories.ErrConversationNotFound {
			return c.JSON(http.StatusOK, []models.Message{})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	messages, err := h.messageRepository.GetMessages(ctx, conversation.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, messages)
}

// enrichedConversation adds the other participant's compact profile so the
// inbox renders without extra lookups.
type enrichedConversation struct {
	models.Conversation
	OtherParticipant *models.UserCompact `json:"otherParticipant,omitempty"`
}

// GetConversations returns the caller's conversations, most recently active
// first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	conversations, err := h.messageRepository.GetConversationsForUser(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]enrichedConversation, len(conversations))
	for i, conv := range conversations {
		enriched[i] = enrichedConversation{Conversation: conv}
		for _, participant := range conv.Participants {
			if participant == currentUserID {
				continue
			}
			if user, err := h.userRepository.GetUserByID(ctx, participant); err == nil {
				compact := user.ToCompact()
				enriched[i].OtherParticipant = &compact
			}
			break
		}
	}

	return c.JSON(http.StatusOK, enriched)
}
