package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// cspPolicy the class page posts a DELETE with an inline script; student
// photos are served from our own origin.
const cspPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self'; form-action 'self'; frame-ancestors 'none'"

// SecurityHeaders hardening headers. Pages behind a session are marked
// no-store so a shared browser's back button does not reveal class data
// after logout. HSTS is only sent when cookies are issued Secure.
func SecurityHeaders(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", cspPolicy)
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		if secure {
			h.Set("Strict-Transport-Security", "max-age=31536000")
		}
		if !isProbe(c.Request.URL.Path) {
			h.Set("Cache-Control", "no-store")
		}

		c.Next()
	}
}

func isProbe(path string) bool {
	return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/metrics/")
}
