package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/mehedi83/threads-clone/backend/internal/models"
)

// CookieName is the session cookie set at signup/login.
const CookieName = "jwt"

// ContextUserID is the echo context key holding the authenticated user's hex ID.
const ContextUserID = "userID"

func parseToken(tokenString, secret string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// Protect rejects requests without a valid session cookie and stores the
// caller's user ID in the context.
func Protect(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims, err := parseToken(cookie.Value, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			c.Set(ContextUserID, claims.UserID)
			return next(c)
		}
	}
}

// OptionalAuth stores the caller's user ID when a valid cookie is present and
// lets the request through either way. Used by endpoints whose behavior
// differs for logged-in viewers (profile block check).
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err == nil && cookie.Value != "" {
				if claims, err := parseToken(cookie.Value, secret); err == nil {
					c.Set(ContextUserID, claims.UserID)
				}
			}
			return next(c)
		}
	}
}
