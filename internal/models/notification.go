package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. Recipient != sender for every type except system.
const (
	NotificationLike    = "like"
	NotificationReply   = "reply"
	NotificationFollow  = "follow"
	NotificationMention = "mention"
	NotificationShare   = "share"
	NotificationMessage = "message"
	NotificationSystem  = "system"
)

// Notification is created only as a side effect of another action (follow,
// like, reply, mention, share, message); clients never write one directly.
type Notification struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Type      string             `json:"type" bson:"type"`
	Post      primitive.ObjectID `json:"post,omitempty" bson:"post,omitempty"`
	Message   primitive.ObjectID `json:"message,omitempty" bson:"message,omitempty"`
	Text      string             `json:"text" bson:"text"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
