package repositories

import "errors"

// Sentinel errors shared by all repositories so handlers can map them to HTTP
// statuses with errors.Is instead of string matching.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrConversationNotFound = errors.New("conversation not found")
)
