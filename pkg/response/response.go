package response

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Page names of the shared error views
const (
	pageNotFound = "404"
	pageError    = "error"
)

// Page renders a named HTML view with status
func Page(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, data)
}

// OK renders a named HTML view with 200
func OK(c *gin.Context, name string, data gin.H) {
	Page(c, http.StatusOK, name, data)
}

// ── Errors ──

// NotFound renders the 404 page. Missing and foreign records look the same.
func NotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, pageNotFound, gin.H{"Message": message})
	c.Abort()
}

// Forbidden renders the access-denied page
func Forbidden(c *gin.Context, message string) {
	errorPage(c, http.StatusForbidden, "Access denied", message)
}

// Conflict the class changed under the request
func Conflict(c *gin.Context, message string) {
	errorPage(c, http.StatusConflict, "Conflict", message)
}

// BadRequest malformed input
func BadRequest(c *gin.Context, message string) {
	errorPage(c, http.StatusBadRequest, "Bad request", message)
}

// TooManyRequests rate limit exceeded
func TooManyRequests(c *gin.Context) {
	errorPage(c, http.StatusTooManyRequests, "Too many requests", "Please wait a moment and try again.")
}

// InternalError generic 500 without any detail
func InternalError(c *gin.Context) {
	errorPage(c, http.StatusInternalServerError, "Internal Server Error", "Something went wrong. Please try again later.")
}

func errorPage(c *gin.Context, status int, title, message string) {
	c.HTML(status, pageError, gin.H{
		"Code":    status,
		"Title":   title,
		"Message": message,
	})
	c.Abort()
}

// ── Redirects ──

// Redirect sends a 302 to location
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// RedirectBack returns the browser to the referring page, or to fallback
// when the Referer is missing or points at another host.
func RedirectBack(c *gin.Context, fallback string) {
	location := fallback
	if ref := c.GetHeader("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == c.Request.Host) {
			location = ref
		}
	}
	c.Redirect(http.StatusFound, location)
}

// Health JSON probe body
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PayloadTooLarge the request body exceeded the configured limit
func PayloadTooLarge(c *gin.Context) {
	errorPage(c, http.StatusRequestEntityTooLarge, "Payload too large", "The uploaded file is too large.")
}
