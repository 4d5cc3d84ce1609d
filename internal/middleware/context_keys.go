package middleware

import (
	"context"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is the type of keys stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	userNameKey  = contextKey("userName")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetActorFromContext returns the authenticated actor stamped on ledger writes.
// The display name falls back to the user ID when the token carries none.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return domain.Actor{}, false
	}
	name, _ := c.Request.Context().Value(userNameKey).(string)
	if name == "" {
		name = userID
	}
	return domain.Actor{ID: userID, Name: name}, true
}

// WithActor returns a context carrying the actor's identity.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	ctx = context.WithValue(ctx, userIDKey, actor.ID)
	return context.WithValue(ctx, userNameKey, actor.Name)
}
