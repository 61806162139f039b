package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"github.com/gin-gonic/gin"
)

// contextUserKey is where the auth middleware stores the verified username.
const contextUserKey = "username"

// AuthRequired gates a route behind a bearer token. A missing token aborts
// with 401, a token that fails verification with 403; on success the
// username claim is attached to the request context.
func AuthRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) < 2 || parts[1] == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		username, err := auth.VerifyToken(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(contextUserKey, username)
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
