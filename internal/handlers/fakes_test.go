package handlers

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/mehedi83/threads-clone/backend/internal/models"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func jsonDecode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// In-memory repository fakes. They mirror the Mongo implementations closely
// enough for handler behavior: toggles, counters and denormalized fields are
// maintained the same way the real update documents do.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmailOrUsername(_ context.Context, query string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == query || u.Username == query {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByVerificationToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if token != "" && u.VerificationToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByResetToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if token != "" && u.ResetPasswordToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func addToSet(list []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

func pull(list []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := list[:0]
	for _, existing := range list {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (r *fakeUserRepo) AddFollower(_ context.Context, userID, followerID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Followers = addToSet(u.Followers, followerID)
	return nil
}

func (r *fakeUserRepo) RemoveFollower(_ context.Context, userID, followerID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Followers = pull(u.Followers, followerID)
	return nil
}

func (r *fakeUserRepo) AddFollowing(_ context.Context, userID, followingID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Following = addToSet(u.Following, followingID)
	return nil
}

func (r *fakeUserRepo) RemoveFollowing(_ context.Context, userID, followingID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Following = pull(u.Following, followingID)
	return nil
}

func (r *fakeUserRepo) SampleUsers(_ context.Context, exclude primitive.ObjectID, size int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.ID == exclude || u.IsFrozen {
			continue
		}
		out = append(out, *u)
		if len(out) == size {
			break
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SearchUsers(_ context.Context, query string, _ int64) ([]models.User, error) {
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range r.users {
		if u.IsFrozen {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Name), q) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountUsersCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

type fakePostRepo struct {
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Replies == nil {
		post.Replies = []models.Reply{}
	}
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) GetPostsByUser(_ context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.PostedBy == userID && !p.IsHidden {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePostRepo) GetPostsWithUserReplies(_ context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.IsHidden {
			continue
		}
		for _, reply := range p.Replies {
			if reply.UserID == userID {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetFeedPosts(_ context.Context, following []primitive.ObjectID, limit int64) ([]models.Post, error) {
	followed := make(map[primitive.ObjectID]bool, len(following))
	for _, id := range following {
		followed[id] = true
	}
	var out []models.Post
	for _, p := range r.posts {
		if followed[p.PostedBy] && !p.IsHidden {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID primitive.ObjectID) error {
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Likes = addToSet(p.Likes, userID)
	return nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) error {
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Likes = pull(p.Likes, userID)
	return nil
}

func (r *fakePostRepo) AddReply(_ context.Context, postID primitive.ObjectID, reply models.Reply) error {
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Replies = append(p.Replies, reply)
	p.ReplyCount++
	return nil
}

func (r *fakePostRepo) RecordShare(_ context.Context, postID, userID primitive.ObjectID) error {
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Shares = addToSet(p.Shares, userID)
	p.ShareCount++
	return nil
}

func (r *fakePostRepo) IncrementViewCount(_ context.Context, postID primitive.ObjectID) error {
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.ViewCount++
	return nil
}

func (r *fakePostRepo) SetEdited(_ context.Context, postID primitive.ObjectID, text string, at time.Time) error {
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Text = text
	p.IsEdited = true
	p.EditedAt = at
	return nil
}

func (r *fakePostRepo) SearchPosts(_ context.Context, text, hashtag string, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.IsHidden {
			continue
		}
		if hashtag != "" {
			found := false
			for _, tag := range p.Hashtags {
				if tag == hashtag {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if text != "" && !strings.Contains(strings.ToLower(p.Text), strings.ToLower(text)) {
			continue
		}
		out = append(out, *p)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetTrendingPosts(_ context.Context, since time.Time, limit int64) ([]models.Post, error) {
	engagement := func(p *models.Post) int {
		return len(p.Likes) + len(p.Replies) + p.ShareCount
	}
	var out []models.Post
	for _, p := range r.posts {
		if p.CreatedAt.After(since) && !p.IsHidden {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return engagement(&out[i]) > engagement(&out[j]) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) BackfillReplyAuthor(_ context.Context, userID primitive.ObjectID, username, profilePic string) error {
	for _, p := range r.posts {
		for i := range p.Replies {
			if p.Replies[i].UserID == userID {
				p.Replies[i].Username = username
				p.Replies[i].UserProfilePic = profilePic
			}
		}
	}
	return nil
}

func (r *fakePostRepo) CountPostsCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if p.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

type fakeNotificationRepo struct {
	notifications map[primitive.ObjectID]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) GetNotificationByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	if n, ok := r.notifications[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) GetByRecipient(_ context.Context, recipientID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.Recipient == recipientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(_ context.Context, recipientID primitive.ObjectID) (int64, error) {
	var n int64
	for _, notif := range r.notifications {
		if notif.Recipient == recipientID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	if n, ok := r.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID primitive.ObjectID) error {
	for _, n := range r.notifications {
		if n.Recipient == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteNotification(_ context.Context, id primitive.ObjectID) error {
	delete(r.notifications, id)
	return nil
}

func (r *fakeNotificationRepo) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	for id, n := range r.notifications {
		if n.Post == postID {
			delete(r.notifications, id)
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, n := range r.notifications {
		if n.CreatedAt.Before(cutoff) {
			delete(r.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeNotificationRepo) byType(recipient primitive.ObjectID, notifType string) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.Recipient == recipient && n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

type fakeMessageRepo struct {
	conversations map[primitive.ObjectID]*models.Conversation
	messages      []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{conversations: make(map[primitive.ObjectID]*models.Conversation)}
}

func (r *fakeMessageRepo) GetOrCreateConversation(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	if conv, err := r.GetConversationBetween(ctx, a, b); err == nil {
		return conv, nil
	}
	conv := &models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{a, b},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.conversations[conv.ID] = conv
	copied := *conv
	return &copied, nil
}

func (r *fakeMessageRepo) GetConversationByID(_ context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	if conv, ok := r.conversations[id]; ok {
		copied := *conv
		return &copied, nil
	}
	return nil, repositories.ErrConversationNotFound
}

func (r *fakeMessageRepo) GetConversationBetween(_ context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	for _, conv := range r.conversations {
		hasA, hasB := false, false
		for _, p := range conv.Participants {
			if p == a {
				hasA = true
			}
			if p == b {
				hasB = true
			}
		}
		if hasA && hasB {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, repositories.ErrConversationNotFound
}

func (r *fakeMessageRepo) GetConversationsForUser(_ context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, conv := range r.conversations {
		for _, p := range conv.Participants {
			if p == userID {
				out = append(out, *conv)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeMessageRepo) UpdateLastMessage(_ context.Context, conversationID primitive.ObjectID, last models.LastMessage) error {
	conv, ok := r.conversations[conversationID]
	if !ok {
		return repositories.ErrConversationNotFound
	}
	conv.LastMessage = last
	conv.UpdatedAt = time.Now()
	return nil
}

func (r *fakeMessageRepo) CreateMessage(_ context.Context, m *models.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	copied := *m
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) GetMessages(_ context.Context, conversationID primitive.ObjectID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkMessagesSeen(_ context.Context, conversationID, readerID primitive.ObjectID) error {
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.Sender != readerID {
			m.Seen = true
		}
	}
	if conv, ok := r.conversations[conversationID]; ok && conv.LastMessage.Sender != readerID {
		conv.LastMessage.Seen = true
	}
	return nil
}
