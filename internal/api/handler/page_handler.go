package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/response"
)

// PageHandler home and static pages
type PageHandler struct {
	classSvc service.ClassService
}

// NewPageHandler creates the PageHandler
func NewPageHandler(classSvc service.ClassService) *PageHandler {
	return &PageHandler{classSvc: classSvc}
}

// Home GET /
func (h *PageHandler) Home(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	classes, err := h.classSvc.ListClasses(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.OK(c, "home", gin.H{
		"Name":        user.Name,
		"Classes":     classes,
		"IsPrincipal": user.HasRole(model.PrincipalOnly...),
	})
}

// Static renders a page that needs no data
func (h *PageHandler) Static(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.OK(c, name, nil)
	}
}

// NotFound fallback for unknown routes
func (h *PageHandler) NotFound(c *gin.Context) {
	response.NotFound(c, "")
}

// Health GET /health
func (h *PageHandler) Health(c *gin.Context) {
	response.Health(c)
}
