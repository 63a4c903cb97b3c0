package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mehedi83/threads-clone/backend/internal/models"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	postRepository         repositories.PostRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, postRepo repositories.PostRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		postRepository:         postRepo,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.PUT("/read/:id", h.MarkAsRead)
	g.PUT("/read-all", h.MarkAllAsRead)
	g.DELETE("/:id", h.DeleteNotification)
}

// enrichedNotification carries compact sender info and a post snippet so the
// client can render the list without extra round trips.
type enrichedNotification struct {
	models.Notification
	SenderUser  *models.UserCompact `json:"senderUser,omitempty"`
	PostSnippet string              `json:"postSnippet,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(ctx context.Context, notifications []models.Notification) []enrichedNotification {
	enriched := make([]enrichedNotification, len(notifications))
	userCache := make(map[primitive.ObjectID]*models.UserCompact)

	for i, n := range notifications {
		enriched[i] = enrichedNotification{Notification: n}

		if !n.Sender.IsZero() {
			sender, ok := userCache[n.Sender]
			if !ok {
				if user, err := h.userRepository.GetUserByID(ctx, n.Sender); err == nil {
					compact := user.ToCompact()
					sender = &compact
				}
				userCache[n.Sender] = sender
			}
			enriched[i].SenderUser = sender
		}

		if !n.Post.IsZero() {
			if post, err := h.postRepository.GetPostByID(ctx, n.Post); err == nil {
				snippet := post.Text
				if len([]rune(snippet)) > 80 {
					snippet = string([]rune(snippet)[:80])
				}
				enriched[i].PostSnippet = snippet
			}
		}
	}
	return enriched
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	notifications, err := h.notificationRepository.GetByRecipient(ctx, currentUserID, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichNotifications(ctx, notifications))
}

// GetUnreadCount returns the number of unread notifications for the caller
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a single notification read. Idempotent; only the
// recipient may do it.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	ctx := c.Request().Context()
	notification, err := h.notificationRepository.GetNotificationByID(ctx, notifID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if notification.Recipient != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your notification")
	}

	if err := h.notificationRepository.MarkAsRead(ctx, notifID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// DeleteNotification deletes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	ctx := c.Request().Context()
	notification, err := h.notificationRepository.GetNotificationByID(ctx, notifID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if notification.Recipient != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your notification")
	}

	if err := h.notificationRepository.DeleteNotification(ctx, notifID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}
