package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/errkit/errors"
)

// ContentType rejects requests carrying a body whose media type is not in
// supported. The error renders as 415.
func ContentType(supported ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(supported))
	for _, s := range supported {
		allowed[s] = true
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 && c.GetHeader("Content-Type") == "" {
			c.Next()
			return
		}
		if ct := c.ContentType(); !allowed[ct] {
			Abort(c, errors.UnsupportedMediaType(ct, supported...))
			return
		}
		c.Next()
	}
}
