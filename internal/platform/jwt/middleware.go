package jwtmw

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID is the gin context key holding the authenticated user's ID.
const ContextUserID = "userID"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "sessionid"

// LoginURL is the path unauthenticated requests are redirected to.
const LoginURL = "/auth/login/"

// SessionVerifier checks an opaque session token against the session store.
// Following Go convention: the interface is defined by the consumer (middleware),
// not the provider (auth usecase).
type SessionVerifier interface {
	// VerifySession returns the owning user's ID for a live session,
	// or an error for unknown, expired, or revoked sessions.
	VerifySession(ctx context.Context, sessionID string) (uint, error)
}

// LoginRequired returns a Gin middleware that restricts access to
// authenticated users. It accepts either a Bearer JWT (API clients) or a
// session cookie (browser clients). Unauthenticated requests are redirected
// to the login page with a `next` parameter carrying the original path,
// never answered with an error status.
func LoginRequired(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Bearer token takes priority when present
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			if userID, ok := parseToken(tokenStr); ok {
				c.Set(ContextUserID, userID)
				c.Next()
				return
			}
			redirectToLogin(c)
			return
		}

		// 2. Session cookie, checked against the store on every request
		if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
			userID, err := sessions.VerifySession(c.Request.Context(), sessionID)
			if err == nil {
				c.Set(ContextUserID, userID)
				c.Next()
				return
			}
		}

		redirectToLogin(c)
	}
}

// redirectToLogin aborts the request with a redirect to the login page,
// preserving the originally requested path in the `next` parameter.
func redirectToLogin(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, LoginURL+"?next="+next)
	c.Abort()
}

// parseToken verifies a JWT's signature and extracts the subject user ID.
func parseToken(tokenStr string) (uint, bool) {
	secret := os.Getenv(EnvKeyJWTSecret)
	if secret == "" {
		return 0, false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok {
		return 0, false
	}
	return uint(sub), true
}
