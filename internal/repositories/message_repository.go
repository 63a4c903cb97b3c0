package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/mehedi83/threads-clone/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for conversation and message
// operations. Conversations carry a denormalized lastMessage snapshot so the
// conversation list renders without a join.
type MessageRepository interface {
	GetOrCreateConversation(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	GetConversationBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error)
	GetConversationsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID primitive.ObjectID, last models.LastMessage) error
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessages(ctx context.Context, conversationID primitive.ObjectID) ([]models.Message, error)
	MarkMessagesSeen(ctx context.Context, conversationID, readerID primitive.ObjectID) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// GetOrCreateConversation returns the conversation between the two users,
// creating it on first contact.
func (r *MongoMessageRepository) GetOrCreateConversation(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	conversation, err := r.GetConversationBetween(ctx, a, b)
	if err == nil {
		return conversation, nil
	}
	if err != ErrConversationNotFound {
		return nil, err
	}

	conversation = &models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{a, b},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if _, err := r.conversations.InsertOne(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetConversationByID retrieves a conversation by ID
func (r *MongoMessageRepository) GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("finding conversation: %w", err)
	}
	return &conversation, nil
}

// GetConversationBetween retrieves the conversation containing both users
func (r *MongoMessageRepository) GetConversationBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"participants": bson.M{"$all": bson.A{a, b}}}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("finding conversation: %w", err)
	}
	return &conversation, nil
}

// GetConversationsForUser retrieves the user's conversations, most recently
// active first.
func (r *MongoMessageRepository) GetConversationsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	cursor, err := r.conversations.Find(ctx,
		bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// UpdateLastMessage replaces the conversation's lastMessage snapshot
func (r *MongoMessageRepository) UpdateLastMessage(ctx context.Context, conversationID primitive.ObjectID, last models.LastMessage) error {
	res, err := r.conversations.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"lastMessage": last, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// CreateMessage creates a new message in MongoDB
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	message.UpdatedAt = time.Now()
	_, err := r.messages.InsertOne(ctx, message)
	return err
}

// GetMessages retrieves the conversation's messages, oldest first
func (r *MongoMessageRepository) GetMessages(ctx context.Context, conversationID primitive.ObjectID) ([]models.Message, error) {
	cursor, err := r.messages.Find(ctx,
		bson.M{"conversationId": conversationID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesSeen marks every unseen message sent to the reader in the
// conversation as seen, and flips the lastMessage snapshot. Seen never
// transitions back to false.
func (r *MongoMessageRepository) MarkMessagesSeen(ctx context.Context, conversationID, readerID primitive.ObjectID) error {
	_, err := r.messages.UpdateMany(ctx,
		bson.M{
			"conversationId": conversationID,
			"sender":         bson.M{"$ne": readerID},
			"seen":           false,
		},
		bson.M{"$set": bson.M{"seen": true, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}

	_, err = r.conversations.UpdateOne(ctx,
		bson.M{"_id": conversationID, "lastMessage.sender": bson.M{"$ne": readerID}},
		bson.M{"$set": bson.M{"lastMessage.seen": true}})
	return err
}
