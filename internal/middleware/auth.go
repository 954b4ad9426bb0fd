package middleware

import (
	"context"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// UserLoader resolves the authenticated user id into a user
type UserLoader interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// RequireAuth authenticates the request with a bearer token or, failing
// that, the session cookie. The user is loaded so handlers can check roles.
func RequireAuth(tokens *services.TokenService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c, tokens)
		if !ok {
			userID, ok = sessionUserID(c)
		}
		if !ok {
			apierrors.Abort(c, apierrors.New(apierrors.ErrCodeUnauthorized, "", nil))
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			apierrors.Abort(c, apierrors.New(apierrors.ErrCodeUnauthorized, "", nil))
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

func bearerUserID(c *gin.Context, tokens *services.TokenService) (uint64, bool) {
	if tokens == nil {
		return 0, false
	}
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return 0, false
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}

func sessionUserID(c *gin.Context) (uint64, bool) {
	session := sessions.Default(c)
	return toUserID(session.Get(constants.ContextKeyUserID))
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

// GetCurrentUser returns the user loaded by RequireAuth
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// RequireRole rejects authenticated users whose role is not listed.
// It must run after RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Abort(c, apierrors.New(apierrors.ErrCodeUnauthorized, "", nil))
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Abort(c, apierrors.New(apierrors.ErrCodeForbidden, "You do not have permission to perform this action", nil))
	}
}

func toUserID(v any) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, id != 0
	case uint:
		return uint64(id), id != 0
	case int:
		if id <= 0 {
			return 0, false
		}
		return uint64(id), true
	case int64:
		if id <= 0 {
			return 0, false
		}
		return uint64(id), true
	default:
		return 0, false
	}
}
