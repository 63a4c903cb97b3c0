package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPostLength is the maximum number of characters in a post or reply body.
const MaxPostLength = 500

// Reply is embedded in the post document. Username and userProfilePic are
// denormalized at write time for display without a join; they go stale when
// the author changes profile fields until a profile update back-fills them.
type Reply struct {
	UserID         primitive.ObjectID   `json:"userId" bson:"userId"`
	Text           string               `json:"text" bson:"text"`
	UserProfilePic string               `json:"userProfilePic" bson:"userProfilePic"`
	Username       string               `json:"username" bson:"username"`
	Likes          []primitive.ObjectID `json:"likes" bson:"likes"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
}

// Post represents a post stored in MongoDB. Replies are embedded; replyCount
// mirrors len(replies) and both are updated in the same write.
type Post struct {
	ID           primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	PostedBy     primitive.ObjectID   `json:"postedBy" bson:"postedBy"`
	Text         string               `json:"text" bson:"text"`
	Img          string               `json:"img,omitempty" bson:"img,omitempty"`
	Imgs         []string             `json:"imgs,omitempty" bson:"imgs,omitempty"`
	Video        string               `json:"video,omitempty" bson:"video,omitempty"`
	Likes        []primitive.ObjectID `json:"likes" bson:"likes"`
	Shares       []primitive.ObjectID `json:"shares" bson:"shares"`
	ShareCount   int                  `json:"shareCount" bson:"shareCount"`
	OriginalPost primitive.ObjectID   `json:"originalPost,omitempty" bson:"originalPost,omitempty"`
	IsSharedPost bool                 `json:"isSharedPost" bson:"isSharedPost"`
	Hashtags     []string             `json:"hashtags" bson:"hashtags"`
	Mentions     []primitive.ObjectID `json:"mentions" bson:"mentions"`
	Location     string               `json:"location,omitempty" bson:"location,omitempty"`
	Replies      []Reply              `json:"replies" bson:"replies"`
	ReplyCount   int                  `json:"replyCount" bson:"replyCount"`
	ViewCount    int                  `json:"viewCount" bson:"viewCount"`
	IsEdited     bool                 `json:"isEdited" bson:"isEdited"`
	EditedAt     time.Time            `json:"editedAt,omitempty" bson:"editedAt,omitempty"`
	IsHidden     bool                 `json:"isHidden" bson:"isHidden"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// HasLike reports whether userID is in the post's likes set.
func (p *Post) HasLike(userID primitive.ObjectID) bool {
	return containsID(p.Likes, userID)
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	PostedBy string   `json:"postedBy" validate:"required"`
	Text     string   `json:"text" validate:"required"`
	Img      string   `json:"img,omitempty"`
	Imgs     []string `json:"imgs,omitempty"`
	Video    string   `json:"video,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
	Location string   `json:"location,omitempty"`
}

// ReplyRequest defines the request body for replying to a post
type ReplyRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// SharePostRequest defines the request body for sharing a post
type SharePostRequest struct {
	Text string `json:"text,omitempty" validate:"omitempty,max=500"`
}

// EditPostRequest defines the request body for editing a post
type EditPostRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}
