package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const usernameKey = "username"

// Identity stores the caller's username from the X-Username header in the
// request context. Authentication itself happens upstream; the store only
// needs an owner key for index lookups, so an absent header is allowed and
// handlers fall back to explicit request parameters.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if username := strings.TrimSpace(c.GetHeader("X-Username")); username != "" {
			c.Set(usernameKey, username)
		}
		c.Next()
	}
}

// UsernameFromContext fetches the username stored by Identity middleware.
func UsernameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(usernameKey)
	if username, ok := val.(string); ok {
		return username
	}
	return ""
}
