package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

// AuditWriter persists audit entries.
type AuditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// Audit records successful writes against resource. Failures to persist are
// logged and never fail the request.
func Audit(writer AuditWriter, resource, action string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if writer == nil || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		entry := &models.AuditLog{
			ID:        uuid.NewString(),
			Action:    action,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			CreatedAt: time.Now().UTC(),
		}
		if claims := Claims(c); claims != nil {
			userID := claims.UserID
			entry.UserID = &userID
			if claims.PartnerStateID != "" {
				scope := claims.PartnerStateID
				entry.ResourceID = &scope
			}
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}
		values, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		})
		entry.NewValues = values

		if err := writer.Create(c.Request.Context(), entry); err != nil {
			logger.Warn("failed to record audit log",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err))
		}
	}
}
