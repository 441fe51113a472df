// middleware.go implements authentication and request logging.
//
// Design: Auth stores the identity both in the gin context (for handlers)
// and in the request context (for anything downstream that only sees a
// context.Context). RequestLog writes one audit entry per API call with
// the route pattern as its source.

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jpl-au/kbase/internal/auth"
	"github.com/jpl-au/kbase/internal/log"
)

const userKey = "user_id"

// Auth resolves the Authorization header into an identity or aborts with 401.
func Auth(resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			AuthAttempts.WithLabelValues("failure").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		AuthAttempts.WithLabelValues("success").Inc()

		c.Set(userKey, id.UserID)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// userID returns the authenticated user set by Auth.
func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

// RequestLog writes a process log line and, for authenticated requests, an
// audit log entry.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start))

		user := userID(c)
		if user == "" {
			return
		}
		l := log.Event("http:"+c.FullPath(), c.Request.Method).
			User(user).
			Target(c.Param("id")).
			Detail("status", status)
		// A nil *gin.Error must not become a non-nil error.
		var err error
		if e := c.Errors.Last(); e != nil {
			err = e
		}
		l.Write(err)
	}
}
