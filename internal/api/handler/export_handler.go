package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/response"
)

// ExportHandler file downloads for a class
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler creates the ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// AttendanceSheet GET /class/:classid/export/attendance.xlsx
func (h *ExportHandler) AttendanceSheet(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	out, err := h.exportSvc.ExportAttendance(c.Request.Context(), user, c.Param("classid"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendFile(c, out)
}

// LessonCalendar GET /class/:classid/lessons.ics
func (h *ExportHandler) LessonCalendar(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	out, err := h.calendarSvc.LessonCalendar(c.Request.Context(), user, c.Param("classid"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendFile(c, out)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		_ = c.Error(err)
		response.InternalError(c)
	default:
		handleClassError(c, err)
	}
}

func sendFile(c *gin.Context, out *dto.Export) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
