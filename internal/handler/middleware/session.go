package middleware

import (
	"github.com/gin-gonic/gin"
)

// ClientKeyHeader carries a browser-stable key that scopes the remembered last query.
const ClientKeyHeader = "X-Client-Key"

const ctxSessionIDKey = "session_id"

func SetSessionID(c *gin.Context, id string) {
	c.Set(ctxSessionIDKey, id)
}

func GetSessionID(c *gin.Context) string {
	if v, exists := c.Get(ctxSessionIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
