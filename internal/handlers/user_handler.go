package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/mehedi83/threads-clone/backend/internal/mailer"
	"github.com/mehedi83/threads-clone/backend/internal/media"
	"github.com/mehedi83/threads-clone/backend/internal/middleware"
	"github.com/mehedi83/threads-clone/backend/internal/models"
	"github.com/mehedi83/threads-clone/backend/internal/realtime"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
	sessionDuration  = 15 * 24 * time.Hour
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// UserHandler handles account, social-graph and auth HTTP requests
type UserHandler struct {
	userRepository         repositories.UserRepository
	postRepository         repositories.PostRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
	media                  *media.Client
	mailer                 *mailer.Mailer
	jwtSecret              string
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, notifRepo repositories.NotificationRepository, hub *realtime.Hub, mediaClient *media.Client, mail *mailer.Mailer, jwtSecret string) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		postRepository:         postRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
		media:                  mediaClient,
		mailer:                 mail,
		jwtSecret:              jwtSecret,
	}
}

// RegisterUserRoutes registers user routes. Mutating endpoints take the
// required-auth middleware, profile lookup the optional one; search is
// public.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, auth, optionalAuth echo.MiddlewareFunc) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.PUT("/verify-email/:token", h.VerifyEmail)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password/:token", h.ResetPassword)
	g.GET("/profile/:query", h.GetProfile, optionalAuth)
	g.GET("/suggested", h.GetSuggestedUsers, auth)
	g.GET("/search", h.SearchUsers)
	g.POST("/follow/:id", h.FollowUnfollow, auth)
	g.POST("/block/:id", h.BlockUser, auth)
	g.POST("/unblock/:id", h.UnblockUser, auth)
	g.PUT("/update/:id", h.UpdateUser, auth)
	g.PUT("/freeze", h.FreezeAccount, auth)
}

func (h *UserHandler) setAuthCookie(c echo.Context, userID primitive.ObjectID) error {
	claims := &models.TokenClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(sessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Signup registers a new account and sets the session cookie
func (h *UserHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	for _, q := range []string{req.Email, req.Username} {
		if _, err := h.userRepository.GetUserByEmailOrUsername(ctx, q); err == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	verificationToken, err := randomToken(32)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	user := &models.User{
		Name:              req.Name,
		Username:          strings.ToLower(strings.TrimSpace(req.Username)),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Password:          string(hashed),
		VerificationToken: verificationToken,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.mailer.SendVerificationEmail(user.Email, verificationToken); err != nil {
		log.Printf("verification email to %s failed: %v", user.Email, err)
	}

	if err := h.setAuthCookie(c, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate session")
	}
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates by username or email. Five failed attempts lock the
// account for fifteen minutes; a successful login unfreezes a frozen account.
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmailOrUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if user != nil && user.IsLocked() {
		minutes := int(math.Ceil(time.Until(user.LockUntil).Minutes()))
		return c.JSON(http.StatusLocked, echo.Map{
			"error": fmt.Sprintf("Account is locked. Try again in %d minutes", minutes),
		})
	}

	storedHash := ""
	if user != nil {
		storedHash = user.Password
	}
	passwordErr := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password))

	if user == nil || passwordErr != nil {
		if user != nil {
			user.LoginAttempts++
			if user.LoginAttempts >= maxLoginAttempts {
				user.LockUntil = time.Now().Add(lockoutDuration)
			}
			if err := h.userRepository.UpdateUser(ctx, user); err != nil {
				log.Printf("recording failed login for %s: %v", user.Username, err)
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid username or password")
	}

	user.LoginAttempts = 0
	user.LockUntil = time.Time{}
	user.IsFrozen = false
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.setAuthCookie(c, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate session")
	}
	return c.JSON(http.StatusOK, user)
}

// Logout clears the session cookie
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "User logged out successfully"})
}

// GetProfile resolves a profile by 24-hex ObjectID or by username. A viewer
// who has blocked the profile owner is refused; the reverse direction is not
// checked, the block is asymmetric.
func (h *UserHandler) GetProfile(c echo.Context) error {
	query := strings.TrimSpace(c.Param("query"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user identifier")
	}

	ctx := c.Request().Context()
	var (
		user *models.User
		err  error
	)
	if objectIDPattern.MatchString(query) {
		id, _ := primitive.ObjectIDFromHex(query)
		user, err = h.userRepository.GetUserByID(ctx, id)
	} else {
		user, err = h.userRepository.GetUserByUsername(ctx, query)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if requesterID, ok := getUserIDFromContext(c); ok {
		requester, err := h.userRepository.GetUserByID(ctx, requesterID)
		if err == nil && requester.HasBlocked(user.ID) {
			return echo.NewHTTPError(http.StatusForbidden, "You have blocked this user")
		}
	}

	return c.JSON(http.StatusOK, user)
}

// FollowUnfollow toggles the follow relationship. The two list updates are
// independent document writes; each uses an atomic set operator but the pair
// is not transactional, the client re-fetches authoritative state on doubt.
func (h *UserHandler) FollowUnfollow(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if targetID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow/unfollow yourself")
	}

	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	currentUser, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	// Private accounts cannot be followed by non-followers; there is no
	// follow-request workflow.
	if target.IsPrivate && !target.IsFollowedBy(currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "This account is private")
	}

	if currentUser.IsFollowing(targetID) {
		if err := h.userRepository.RemoveFollower(ctx, targetID, currentUserID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if err := h.userRepository.RemoveFollowing(ctx, currentUserID, targetID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "User unfollowed successfully"})
	}

	if err := h.userRepository.AddFollower(ctx, targetID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.AddFollowing(ctx, currentUserID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	createAndPushNotification(ctx, h.notificationRepository, h.hub, &models.Notification{
		Recipient: targetID,
		Sender:    currentUserID,
		Type:      models.NotificationFollow,
		Text:      currentUser.Username + " started following you",
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "User followed successfully"})
}

// BlockUser blocks the target and strips it from the caller's own follower
// and following lists. Unilateral: the target's lists are left untouched.
func (h *UserHandler) BlockUser(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if targetID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot block yourself")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	currentUser, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if currentUser.HasBlocked(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "User is already blocked")
	}

	currentUser.BlockedUsers = append(currentUser.BlockedUsers, targetID)
	currentUser.Following = lo.Filter(currentUser.Following, func(id primitive.ObjectID, _ int) bool {
		return id != targetID
	})
	currentUser.Followers = lo.Filter(currentUser.Followers, func(id primitive.ObjectID, _ int) bool {
		return id != targetID
	})
	if err := h.userRepository.UpdateUser(ctx, currentUser); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User blocked successfully"})
}

// UnblockUser removes the target from the caller's block list
func (h *UserHandler) UnblockUser(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	ctx := c.Request().Context()
	currentUser, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if !currentUser.HasBlocked(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "User is not blocked")
	}

	currentUser.BlockedUsers = lo.Filter(currentUser.BlockedUsers, func(id primitive.ObjectID, _ int) bool {
		return id != targetID
	})
	if err := h.userRepository.UpdateUser(ctx, currentUser); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User unblocked successfully"})
}

// UpdateUser updates the caller's own profile. A username or avatar change
// back-fills the denormalized author snapshot in every embedded reply.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if c.Param("id") != currentUserID.Hex() {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot update other user's profile")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
		}
		user.Password = string(hashed)
	}

	if req.ProfilePic != "" {
		if user.ProfilePic != "" {
			if err := h.media.Destroy(ctx, media.PublicIDFromURL(user.ProfilePic)); err != nil {
				log.Printf("destroying old profile pic: %v", err)
			}
		}
		url, err := h.media.Upload(ctx, req.ProfilePic, "threads/profiles")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		user.ProfilePic = url
	}

	if req.CoverPic != "" {
		if user.CoverPic != "" {
			if err := h.media.Destroy(ctx, media.PublicIDFromURL(user.CoverPic)); err != nil {
				log.Printf("destroying old cover pic: %v", err)
			}
		}
		url, err := h.media.Upload(ctx, req.CoverPic, "threads/covers")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		user.CoverPic = url
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}
	if req.Username != "" {
		user.Username = strings.ToLower(req.Username)
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Website != "" {
		user.Website = req.Website
	}
	if req.Location != "" {
		user.Location = req.Location
	}
	if req.IsPrivate != nil {
		user.IsPrivate = *req.IsPrivate
	}

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Refresh the reply author snapshots embedded in posts.
	if err := h.postRepository.BackfillReplyAuthor(ctx, user.ID, user.Username, user.ProfilePic); err != nil {
		log.Printf("reply author back-fill for %s: %v", user.Username, err)
	}

	return c.JSON(http.StatusOK, user)
}

// GetSuggestedUsers returns up to five random non-frozen users the caller
// does not already follow. Unweighted sampling, no personalization.
func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	currentUser, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	sampled, err := h.userRepository.SampleUsers(ctx, currentUserID, 15)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	suggested := lo.Filter(sampled, func(u models.User, _ int) bool {
		return !currentUser.IsFollowing(u.ID)
	})
	if len(suggested) > 5 {
		suggested = suggested[:5]
	}

	return c.JSON(http.StatusOK, suggested)
}

// FreezeAccount soft-disables the caller's account until the next login
func (h *UserHandler) FreezeAccount(c echo.Context) error {
	currentUserID, ok := getUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user.IsFrozen = true
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// searchResult is the user search response shape with a computed match score.
type searchResult struct {
	ID             primitive.ObjectID `json:"_id"`
	Username       string             `json:"username"`
	Name           string             `json:"name"`
	ProfilePic     string             `json:"profilePic"`
	IsVerified     bool               `json:"isVerified"`
	Bio            string             `json:"bio"`
	FollowersCount int                `json:"followersCount"`
	FollowingCount int                `json:"followingCount"`
	MatchScore     int                `json:"matchScore"`
}

// SearchUsers searches users by username or display name, exact matches first
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), regexp.QuoteMeta(query), 20)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := lo.Map(users, func(u models.User, _ int) searchResult {
		return searchResult{
			ID:             u.ID,
			Username:       u.Username,
			Name:           u.Name,
			ProfilePic:     u.ProfilePic,
			IsVerified:     u.IsVerified,
			Bio:            u.Bio,
			FollowersCount: len(u.Followers),
			FollowingCount: len(u.Following),
			MatchScore:     matchScore(u, query),
		}
	})
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return c.JSON(http.StatusOK, results)
}

// matchScore ranks exact matches over prefix matches over substring matches.
func matchScore(u models.User, query string) int {
	score := 0
	q := strings.ToLower(query)
	username := strings.ToLower(u.Username)
	name := strings.ToLower(u.Name)

	if username == q {
		score += 100
	}
	if name == q {
		score += 80
	}
	if strings.HasPrefix(username, q) {
		score += 60
	}
	if strings.HasPrefix(name, q) {
		score += 50
	}
	if strings.Contains(username, q) {
		score += 30
	}
	if strings.Contains(name, q) {
		score += 20
	}
	return score
}

// VerifyEmail confirms the address behind a verification token
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("token")

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByVerificationToken(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid verification token")
	}

	user.EmailVerified = true
	user.VerificationToken = ""
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Email verified successfully"})
}

// ForgotPassword issues a one-hour reset token and emails it
func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	resetToken, err := randomToken(32)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	user.ResetPasswordToken = resetToken
	user.ResetPasswordExpires = time.Now().Add(time.Hour)
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.mailer.SendPasswordResetEmail(user.Email, resetToken); err != nil {
		log.Printf("reset email to %s failed: %v", user.Email, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent"})
}

// ResetPassword completes a reset with a still-valid token
func (h *UserHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByResetToken(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}
	user.Password = string(hashed)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = time.Time{}
	user.LoginAttempts = 0
	user.LockUntil = time.Time{}
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}
