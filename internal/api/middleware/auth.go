package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/response"
	"github.com/grvup/classroom/pkg/session"
)

// Context keys set by the session middlewares
const (
	ContextUserKey  = "user"
	ContextTokenKey = "session_token"
)

// IntroPath where unauthenticated browsers are sent
const IntroPath = "/intro"

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// SessionAuth requires a valid session cookie. Anything else is redirected
// to the intro page with a plain 302.
func SessionAuth(sessions *session.Manager, auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, ok := resolve(c, sessions, auth, logger)
		if c.IsAborted() {
			return
		}
		if !ok {
			response.Redirect(c, IntroPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the caller when possible and never rejects
func OptionalAuth(sessions *session.Manager, auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolve(c, sessions, auth, logger)
		if c.IsAborted() {
			return
		}
		c.Next()
	}
}

// RoleAuth admits callers whose role is in roles. It must run after
// SessionAuth; there is no role hierarchy.
func RoleAuth(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextUserKey)
		if !exists {
			response.Redirect(c, IntroPath)
			c.Abort()
			return
		}

		user := v.(*model.User)
		if !user.HasRole(roles...) {
			response.Forbidden(c, "Access denied.")
			return
		}

		c.Next()
	}
}

// resolve stores the caller in the context. Storage failures render a 500
// and abort.
func resolve(c *gin.Context, sessions *session.Manager, auth Authenticator, logger *zap.Logger) (*model.User, bool) {
	token, err := sessions.ReadCookie(c.Request)
	if err != nil {
		return nil, false
	}

	user, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return nil, false
		}
		logger.Error("authenticate session failed", zap.Error(err))
		response.InternalError(c)
		return nil, false
	}

	c.Set(ContextUserKey, user)
	c.Set(ContextTokenKey, token)
	return user, true
}
