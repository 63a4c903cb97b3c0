package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/mehedi83/threads-clone/backend/internal/metrics"
	"github.com/mehedi83/threads-clone/backend/internal/middleware"
	"github.com/mehedi83/threads-clone/backend/internal/models"
	"github.com/mehedi83/threads-clone/backend/internal/realtime"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// getUserIDFromContext returns the authenticated caller's ObjectID, or false
// when the request carries no valid identity.
func getUserIDFromContext(c echo.Context) (primitive.ObjectID, bool) {
	raw, ok := c.Get(middleware.ContextUserID).(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// createAndPushNotification persists the notification and attempts realtime
// delivery. Failures are logged and swallowed: the triggering action already
// succeeded and must not be rolled back, and push delivery is at-most-once.
func createAndPushNotification(ctx context.Context, repo repositories.NotificationRepository, hub *realtime.Hub, n *models.Notification) {
	if err := repo.CreateNotification(ctx, n); err != nil {
		log.Printf("notification create (%s) failed: %v", n.Type, err)
		return
	}
	metrics.NotificationsCreated.WithLabelValues(n.Type).Inc()

	if hub != nil {
		hub.SendToUser(n.Recipient.Hex(), realtime.EventNewNotification, echo.Map{
			"type":    n.Type,
			"message": n.Text,
		})
	}
}

// randomToken returns n random bytes hex-encoded, used for email verification
// and password reset tokens.
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
