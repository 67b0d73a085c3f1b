package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/service"
)

// AuditOrigin stores the caller address and user agent for audit records written
// later in the request.
func AuditOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := service.WithAuditOrigin(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Audit records action after a successful request.
func Audit(auditor *service.AuditService, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}
		auditor.Record(ctx, action, resource, "", map[string]interface{}{
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"status": c.Writer.Status(),
		})
	}
}
