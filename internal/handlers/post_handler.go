package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mehedi83/threads-clone/backend/internal/media"
	"github.com/mehedi83/threads-clone/backend/internal/models"
	"github.com/mehedi83/threads-clone/backend/internal/realtime"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	mentionPattern = regexp.MustCompile(`@(\w+)`)
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
	media                  *media.Client
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, hub *realtime.Hub, mediaClient *media.Client) *PostHandler {
	return &PostHandler{
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
		media:                  mediaClient,
	}
}

// RegisterPostRoutes registers post-related routes. Writes and the personal
// feed take the required-auth middleware; reads are public.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/create", h.CreatePost, auth)
	g.GET("/feed", h.GetFeedPosts, auth)
	g.GET("/trending", h.GetTrendingPosts)
	g.GET("/search", h.SearchPosts)
	g.GET("/user/:username", h.GetUserPosts)
	g.GET("/user/:username/replies", h.GetUserReplies)
	g.GET("/:id", h.GetPost)
	g.PUT("/:id", h.EditPost, auth)
	g.DELETE("/:id", h.DeletePost, auth)
	g.PUT("/like/:id", h.LikeUnlikePost, auth)
	g.PUT("/reply/:id", h.ReplyToPost, auth)
	g.POST("/:id/share", h.SharePost, auth)
}

// enrichedPost carries the denormalized author alongside the post document.
type enrichedPost struct {
	models.Post
	PostedByUser models.UserCompact `json:"postedByUser"`
}

// enrichPosts attaches compact author info, caching lookups per request the
// same way the notification list does.
func (h *PostHandler) enrichPosts(ctx context.Context, posts []models.Post) []enrichedPost {
	enriched := make([]enrichedPost, len(posts))
	cache := make(map[primitive.ObjectID]models.UserCompact)

	for i, p := range posts {
		enriched[i] = enrichedPost{Post: p}
		if author, ok := cache[p.PostedBy]; ok {
			enriched[i].PostedByUser = author
			continue
		}
		user, err := h.userRepository.GetUserByID(ctx, p.PostedBy)
		if err != nil {
			continue
		}
		compact := user.ToCompact()
		cache[p.PostedBy] = compact
		enriched[i].PostedByUser = compact
	}
	return enriched
}

// extractMentions resolves @username tokens to existing users. Unresolvable
// mentions are dropped silently.
func (h *PostHandler) extractMentions(ctx context.Context, text string) []primitive.ObjectID {
	var mentions []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		user, err := h.userRepository.GetUserByUsername(ctx, strings.ToLower(match[1]))
		if err != nil {
			continue
		}
		if !seen[user.ID] {
			seen[user.ID] = true
			mentions = append(mentions, user.ID)
		}
	}
	return mentions
}

// extractHashtags returns the lowercased #hashtag tokens in the text.
func extractHashtags(text string) []string {
	var hashtags []string
	seen := make(map[string]bool)
	for _, match := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(match[1])
		if !seen[tag] {
			seen[tag] = true
			hashtags = append(hashtags, tag)
		}
	}
	return hashtags
}

// CreatePost creates a post. Mention notifications are a non-transactional
// side effect: if they fail after the post is saved, the post stays without
// them and the failure is only logged.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	postedBy, err := primitive.ObjectIDFromHex(req.PostedBy)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid postedBy ID")
	}

	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByID(ctx, postedBy)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if author.ID != currentUserID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized to create post")
	}

	if len([]rune(req.Text)) > models.MaxPostLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Text must be less than 500 characters")
	}

	mentions := h.extractMentions(ctx, req.Text)
	hashtags := req.Hashtags
	if len(hashtags) == 0 {
		hashtags = extractHashtags(req.Text)
	}

	img := req.Img
	if img != "" {
		if img, err = h.media.Upload(ctx, img, "threads/posts"); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	imgs := make([]string, 0, len(req.Imgs))
	for _, payload := range req.Imgs {
		url, err := h.media.Upload(ctx, payload, "threads/posts")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		imgs = append(imgs, url)
	}
	video := req.Video
	if video != "" {
		if video, err = h.media.Upload(ctx, video, "threads/posts"); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	post := &models.Post{
		PostedBy: postedBy,
		Text:     req.Text,
		Img:      img,
		Imgs:     imgs,
		Video:    video,
		Hashtags: hashtags,
		Mentions: mentions,
		Location: req.Location,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for _, mentionedID := range mentions {
		if mentionedID == currentUserID {
			continue
		}
		createAndPushNotification(ctx, h.notificationRepository, h.hub, &models.Notification{
			Recipient: mentionedID,
			Sender:    currentUserID,
			Type:      models.NotificationMention,
			Post:      post.ID,
			Text:      author.Username + " mentioned you in a post",
		})
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post and bumps its view counter
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementViewCount(ctx, postID); err != nil {
		log.Printf("view count for %s: %v", postID.Hex(), err)
	}
	post.ViewCount++

	enriched := h.enrichPosts(ctx, []models.Post{*post})
	return c.JSON(http.StatusOK, enriched[0])
}

// LikeUnlikePost toggles the caller's membership in the post's likes set and
// notifies the author on the like transition only.
func (h *PostHandler) LikeUnlikePost(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if post.HasLike(currentUserID) {
		if err := h.postRepository.RemoveLike(ctx, postID, currentUserID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Post unliked successfully"})
	}

	if err := h.postRepository.AddLike(ctx, postID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.PostedBy != currentUserID {
		liker, err := h.userRepository.GetUserByID(ctx, currentUserID)
		if err == nil {
			createAndPushNotification(ctx, h.notificationRepository, h.hub, &models.Notification{
				Recipient: post.PostedBy,
				Sender:    currentUserID,
				Type:      models.NotificationLike,
				Post:      postID,
				Text:      liker.Username + " liked your post",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post liked successfully"})
}

// ReplyToPost appends a reply with the caller's denormalized username and
// avatar, and notifies the author unless replying to own post.
func (h *PostHandler) ReplyToPost(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.ReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	replier, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	reply := models.Reply{
		UserID:         currentUserID,
		Text:           req.Text,
		UserProfilePic: replier.ProfilePic,
		Username:       replier.Username,
		Likes:          []primitive.ObjectID{},
		CreatedAt:      time.Now(),
	}
	if err := h.postRepository.AddReply(ctx, postID, reply); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.PostedBy != currentUserID {
		createAndPushNotification(ctx, h.notificationRepository, h.hub, &models.Notification{
			Recipient: post.PostedBy,
			Sender:    currentUserID,
			Type:      models.NotificationReply,
			Post:      postID,
			Text:      replier.Username + " replied to your post",
		})
	}

	return c.JSON(http.StatusOK, reply)
}

// SharePost creates a new post referencing the original (one level, shares of
// shares point at the share itself) and notifies the original author.
func (h *PostHandler) SharePost(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.SharePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	original, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	shared := &models.Post{
		PostedBy:     currentUserID,
		Text:         req.Text,
		OriginalPost: postID,
		IsSharedPost: true,
	}
	if err := h.postRepository.CreatePost(ctx, shared); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.RecordShare(ctx, postID, currentUserID); err != nil {
		log.Printf("recording share of %s: %v", postID.Hex(), err)
	}

	if original.PostedBy != currentUserID {
		sharer, err := h.userRepository.GetUserByID(ctx, currentUserID)
		if err == nil {
			createAndPushNotification(ctx, h.notificationRepository, h.hub, &models.Notification{
				Recipient: original.PostedBy,
				Sender:    currentUserID,
				Type:      models.NotificationShare,
				Post:      postID,
				Text:      sharer.Username + " shared your post",
			})
		}
	}

	return c.JSON(http.StatusCreated, shared)
}

// DeletePost hard-deletes the caller's own post, best-effort destroys its
// media blobs and cascades deletion of notifications referencing it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.PostedBy != currentUserID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized to delete post")
	}

	blobs := append([]string{}, post.Imgs...)
	if post.Img != "" {
		blobs = append(blobs, post.Img)
	}
	if post.Video != "" {
		blobs = append(blobs, post.Video)
	}
	for _, url := range blobs {
		if err := h.media.Destroy(ctx, media.PublicIDFromURL(url)); err != nil {
			log.Printf("destroying blob for %s: %v", postID.Hex(), err)
		}
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.notificationRepository.DeleteByPost(ctx, postID); err != nil {
		log.Printf("cascading notification delete for %s: %v", postID.Hex(), err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// EditPost replaces the text of the caller's own post and marks it edited.
// No version history is kept.
func (h *PostHandler) EditPost(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.EditPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.PostedBy != currentUserID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized to edit post")
	}

	now := time.Now()
	if err := h.postRepository.SetEdited(ctx, postID, req.Text, now); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post.Text = req.Text
	post.IsEdited = true
	post.EditedAt = now
	return c.JSON(http.StatusOK, post)
}

// GetFeedPosts returns the newest posts from followed users
func (h *PostHandler) GetFeedPosts(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	posts, err := h.postRepository.GetFeedPosts(ctx, user.Following, 20)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(ctx, posts))
}

// GetUserPosts returns the user's visible posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	posts, err := h.postRepository.GetPostsByUser(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(ctx, posts))
}

// GetUserReplies returns visible posts the user has replied to
func (h *PostHandler) GetUserReplies(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	posts, err := h.postRepository.GetPostsWithUserReplies(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(ctx, posts))
}

// SearchPosts matches post and reply text case-insensitively, with an
// optional exact hashtag filter.
func (h *PostHandler) SearchPosts(c echo.Context) error {
	text := c.QueryParam("q")
	hashtag := strings.ToLower(c.QueryParam("hashtag"))
	if text == "" && hashtag == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	ctx := c.Request().Context()
	posts, err := h.postRepository.SearchPosts(ctx, regexp.QuoteMeta(text), hashtag, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(ctx, posts))
}

// GetTrendingPosts ranks the last week's posts by likes + replies + shares.
// Recomputed per request.
func (h *PostHandler) GetTrendingPosts(c echo.Context) error {
	ctx := c.Request().Context()
	since := time.Now().Add(-7 * 24 * time.Hour)
	posts, err := h.postRepository.GetTrendingPosts(ctx, since, 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(ctx, posts))
}
