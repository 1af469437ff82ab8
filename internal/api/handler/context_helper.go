package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grvup/classroom/internal/api/middleware"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/service"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
	"github.com/grvup/classroom/pkg/response"
)

// MustGetUser returns the caller stored by the session middleware. When it
// is missing the browser is sent to the intro page and ok is false; the
// caller should return immediately.
func MustGetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		response.Redirect(c, middleware.IntroPath)
		c.Abort()
		return nil, false
	}
	u, ok := v.(*model.User)
	if !ok || u == nil {
		response.Redirect(c, middleware.IntroPath)
		c.Abort()
		return nil, false
	}
	return u, true
}

// currentUser the caller if one was resolved, else nil
func currentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(middleware.ContextUserKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// handleClassError maps class service errors onto pages
func handleClassError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, "Class not found")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, "Student not found")
	case errors.Is(err, service.ErrLessonNotFound):
		response.NotFound(c, "Lesson not found")
	case errors.Is(err, service.ErrImageNotFound):
		response.NotFound(c, "Image not found")
	case errors.Is(err, service.ErrImageRequired):
		response.BadRequest(c, "Please choose a photo for the student.")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, "This class was changed by another request. Reload the page and try again.")
	case errors.As(err, &tooLarge):
		response.PayloadTooLarge(c)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// classPath the class page, used when there is no usable Referer
func classPath(classID string) string {
	return "/class/" + classID
}
