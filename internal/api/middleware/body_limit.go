package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies. Multipart requests carry a student photo
// and get uploadMax; every other form gets formMax. A limit <= 0 disables
// that cap. Reading past the limit fails with *http.MaxBytesError, which
// handlers turn into a 413.
func BodyLimit(formMax, uploadMax int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		limit := formMax
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = uploadMax
		}
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
