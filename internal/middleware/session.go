package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-console/internal/service"
	"github.com/noah-isme/campus-console/internal/session"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/response"
)

// ContextUserKey is the gin context key storing the session user.
const ContextUserKey = "sessionUser"

// Session resolves the session cookie and attaches the user when present. It never blocks;
// use RequireSession or RequireRole on protected groups.
func Session(store session.Store, signer *session.Signer, cookieName string, metrics *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		value, err := c.Cookie(cookieName)
		if err != nil || value == "" {
			c.Next()
			return
		}

		claims, err := signer.Parse(value)
		if err != nil {
			c.Next()
			return
		}

		user, err := store.Load(c.Request.Context(), claims.ID)
		if err != nil {
			metrics.RecordSessionLookup(false)
			if !errors.Is(err, appErrors.ErrSessionMissing) {
				logger.Warn("session lookup failed", zap.String("session_id", claims.ID), zap.Error(err))
			}
			c.Next()
			return
		}
		metrics.RecordSessionLookup(true)

		c.Set(ContextUserKey, user)
		c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), user))
		c.Next()
	}
}

// RequireSession rejects requests without a session user.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := session.FromContext(c.Request.Context()); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
