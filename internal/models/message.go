package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LastMessage is the denormalized snapshot kept on the conversation so the
// conversation list renders without a join into messages.
type LastMessage struct {
	Text   string             `json:"text" bson:"text"`
	Sender primitive.ObjectID `json:"sender" bson:"sender"`
	Seen   bool               `json:"seen" bson:"seen"`
}

// Conversation holds exactly two participants in practice.
type Conversation struct {
	ID           primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Participants []primitive.ObjectID `json:"participants" bson:"participants"`
	LastMessage  LastMessage          `json:"lastMessage" bson:"lastMessage"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Message belongs to a conversation. Seen transitions false to true only.
type Message struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversationId"`
	Sender         primitive.ObjectID `json:"sender" bson:"sender"`
	Text           string             `json:"text" bson:"text"`
	Img            string             `json:"img,omitempty" bson:"img,omitempty"`
	Seen           bool               `json:"seen" bson:"seen"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Message     string `json:"message" validate:"required_without=Img,max=1000"`
	Img         string `json:"img,omitempty"`
}
