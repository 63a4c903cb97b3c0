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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error)
	GetPostsWithUserReplies(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error)
	GetFeedPosts(ctx context.Context, following []primitive.ObjectID, limit int64) ([]models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error
	AddReply(ctx context.Context, postID primitive.ObjectID, reply models.Reply) error
	RecordShare(ctx context.Context, postID, userID primitive.ObjectID) error
	IncrementViewCount(ctx context.Context, postID primitive.ObjectID) error
	SetEdited(ctx context.Context, postID primitive.ObjectID, text string, at time.Time) error
	SearchPosts(ctx context.Context, text, hashtag string, limit int64) ([]models.Post, error)
	GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error)
	BackfillReplyAuthor(ctx context.Context, userID primitive.ObjectID, username, profilePic string) error
	CountPostsCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Shares == nil {
		post.Shares = []primitive.ObjectID{}
	}
	if post.Replies == nil {
		post.Replies = []models.Reply{}
	}
	if post.Hashtags == nil {
		post.Hashtags = []string{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("finding post: %w", err)
	}
	return &post, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByUser retrieves the user's visible posts, newest first
func (r *MongoPostRepository) GetPostsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx,
		bson.M{"postedBy": userID, "isHidden": bson.M{"$ne": true}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// GetPostsWithUserReplies retrieves visible posts containing at least one
// reply by the given user, newest first.
func (r *MongoPostRepository) GetPostsWithUserReplies(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx,
		bson.M{"replies.userId": userID, "isHidden": bson.M{"$ne": true}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// GetFeedPosts retrieves visible posts authored by the followed users
func (r *MongoPostRepository) GetFeedPosts(ctx context.Context, following []primitive.ObjectID, limit int64) ([]models.Post, error) {
	return r.find(ctx,
		bson.M{"postedBy": bson.M{"$in": following}, "isHidden": bson.M{"$ne": true}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit))
}

// DeletePost hard-deletes a post
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) updateOne(ctx context.Context, postID primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddLike adds userID to the post's likes set
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes userID from the post's likes set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

// AddReply appends the reply and bumps replyCount in the same write so the
// counter keeps mirroring len(replies).
func (r *MongoPostRepository) AddReply(ctx context.Context, postID primitive.ObjectID, reply models.Reply) error {
	return r.updateOne(ctx, postID, bson.M{
		"$push": bson.M{"replies": reply},
		"$inc":  bson.M{"replyCount": 1},
	})
}

// RecordShare appends the sharer and bumps shareCount on the original post
func (r *MongoPostRepository) RecordShare(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, postID, bson.M{
		"$addToSet": bson.M{"shares": userID},
		"$inc":      bson.M{"shareCount": 1},
	})
}

// IncrementViewCount bumps the post's view counter
func (r *MongoPostRepository) IncrementViewCount(ctx context.Context, postID primitive.ObjectID) error {
	return r.updateOne(ctx, postID, bson.M{"$inc": bson.M{"viewCount": 1}})
}

// SetEdited replaces the post text and marks it edited
func (r *MongoPostRepository) SetEdited(ctx context.Context, postID primitive.ObjectID, text string, at time.Time) error {
	return r.updateOne(ctx, postID, bson.M{"$set": bson.M{
		"text":      text,
		"isEdited":  true,
		"editedAt":  at,
		"updatedAt": at,
	}})
}

// SearchPosts matches text case-insensitively against post and reply bodies,
// optionally filtered by exact hashtag. Hidden posts are excluded.
func (r *MongoPostRepository) SearchPosts(ctx context.Context, text, hashtag string, limit int64) ([]models.Post, error) {
	filter := bson.M{"isHidden": bson.M{"$ne": true}}
	if text != "" {
		filter["$or"] = bson.A{
			bson.M{"text": bson.M{"$regex": text, "$options": "i"}},
			bson.M{"replies.text": bson.M{"$regex": text, "$options": "i"}},
		}
	}
	if hashtag != "" {
		filter["hashtags"] = hashtag
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit))
}

// GetTrendingPosts ranks recent visible posts by likes + replies + shareCount.
// Recomputed per request, no maintained index.
func (r *MongoPostRepository) GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": since},
			"isHidden":  bson.M{"$ne": true},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"engagement": bson.M{"$add": bson.A{
				bson.M{"$size": "$likes"},
				bson.M{"$size": "$replies"},
				"$shareCount",
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "engagement", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$unset", Value: "engagement"}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// BackfillReplyAuthor rewrites the denormalized author snapshot inside every
// embedded reply written by the user. Called after a profile update so the
// snapshots do not stay stale forever.
func (r *MongoPostRepository) BackfillReplyAuthor(ctx context.Context, userID primitive.ObjectID, username, profilePic string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"replies.userId": userID},
		bson.M{"$set": bson.M{
			"replies.$[reply].username":       username,
			"replies.$[reply].userProfilePic": profilePic,
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"reply.userId": userID}},
		}))
	return err
}

// CountPostsCreatedSince counts posts created since the given time
func (r *MongoPostRepository) CountPostsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}
