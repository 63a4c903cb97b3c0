package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in MongoDB. Followers, following and
// blockedUsers are kept as ObjectID lists on the document itself; the handlers
// are responsible for keeping followers/following symmetric across the two
// affected documents since the store does not enforce it.
type User struct {
	ID                   primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name                 string               `json:"name" bson:"name"`
	Username             string               `json:"username" bson:"username"`
	Email                string               `json:"email" bson:"email"`
	Password             string               `json:"-" bson:"password"`
	ProfilePic           string               `json:"profilePic" bson:"profilePic"`
	CoverPic             string               `json:"coverPic" bson:"coverPic"`
	Bio                  string               `json:"bio" bson:"bio"`
	Website              string               `json:"website,omitempty" bson:"website,omitempty"`
	Location             string               `json:"location,omitempty" bson:"location,omitempty"`
	Followers            []primitive.ObjectID `json:"followers" bson:"followers"`
	Following            []primitive.ObjectID `json:"following" bson:"following"`
	BlockedUsers         []primitive.ObjectID `json:"blockedUsers" bson:"blockedUsers"`
	IsFrozen             bool                 `json:"isFrozen" bson:"isFrozen"`
	IsVerified           bool                 `json:"isVerified" bson:"isVerified"`
	IsPrivate            bool                 `json:"isPrivate" bson:"isPrivate"`
	EmailVerified        bool                 `json:"emailVerified" bson:"emailVerified"`
	VerificationToken    string               `json:"-" bson:"verificationToken,omitempty"`
	ResetPasswordToken   string               `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires time.Time            `json:"-" bson:"resetPasswordExpires,omitempty"`
	LoginAttempts        int                  `json:"-" bson:"loginAttempts"`
	LockUntil            time.Time            `json:"-" bson:"lockUntil,omitempty"`
	CreatedAt            time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsLocked reports whether the account is currently locked out after too many
// failed login attempts.
func (u *User) IsLocked() bool {
	return !u.LockUntil.IsZero() && u.LockUntil.After(time.Now())
}

// IsFollowedBy reports whether id is in the user's followers list.
func (u *User) IsFollowedBy(id primitive.ObjectID) bool {
	return containsID(u.Followers, id)
}

// IsFollowing reports whether id is in the user's following list.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	return containsID(u.Following, id)
}

// HasBlocked reports whether id is in the user's blockedUsers list.
func (u *User) HasBlocked(id primitive.ObjectID) bool {
	return containsID(u.BlockedUsers, id)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UserCompact is the denormalized author shape embedded in API responses.
type UserCompact struct {
	ID         primitive.ObjectID `json:"_id"`
	Username   string             `json:"username"`
	Name       string             `json:"name"`
	ProfilePic string             `json:"profilePic"`
	IsVerified bool               `json:"isVerified"`
}

// ToCompact returns the compact representation of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
		IsVerified: u.IsVerified,
	}
}

// SignupRequest defines the request body for user registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Username string `json:"username" validate:"required,min=1,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for login. Username also accepts the
// account email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the request body for profile updates. The pointer
// field distinguishes "absent" from a false value.
type UpdateUserRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Username   string `json:"username,omitempty" validate:"omitempty,min=1,max=30"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=6"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=150"`
	Website    string `json:"website,omitempty"`
	Location   string `json:"location,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
	CoverPic   string `json:"coverPic,omitempty"`
	IsPrivate  *bool  `json:"isPrivate,omitempty"`
}

// ForgotPasswordRequest defines the request body for a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the request body for completing a password reset
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// TokenClaims are the custom session claims carried by the jwt cookie.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
