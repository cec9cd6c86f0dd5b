package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ctxKeyUserID holds the caller's numeric user id once resolved.
	ctxKeyUserID = "userID"
	// HeaderUserID carries the caller id when no upstream auth layer set one.
	HeaderUserID = "X-User-ID"
)

// UserID returns the caller's user id as resolved by Identity.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, id > 0
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	case string:
		return parseUserID(id)
	}
	return 0, false
}

// Identity resolves the calling user. Token verification happens upstream;
// an auth layer that already stored "userID" in the context wins, otherwise
// the X-User-ID header is used. Requests without a positive integer id are
// rejected with 401.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			id, ok = parseUserID(c.GetHeader(HeaderUserID))
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "missing or invalid user identity",
			})
			return
		}
		c.Set(ctxKeyUserID, id)
		c.Next()
	}
}

func parseUserID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
