package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stride-backend/internal/logger"
)

// SchedulerAuth guards the check-in and briefing endpoints. The only caller
// is the external scheduler, so a single static bearer token is enough.
type SchedulerAuth struct {
	log   *logger.Logger
	token string
}

func NewSchedulerAuth(log *logger.Logger, token string) *SchedulerAuth {
	middlewareLog := log.With("middleware", "SchedulerAuth")
	if token == "" {
		middlewareLog.Warn("SCHEDULER_TOKEN not set, scheduler endpoints are unauthenticated")
	}
	return &SchedulerAuth{log: middlewareLog, token: token}
}

func (sa *SchedulerAuth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sa.token == "" {
			c.Next()
			return
		}
		got := extractBearerToken(c)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(sa.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}
