package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/response"
)

// ClassHandler classes, students, lessons and attendance
type ClassHandler struct {
	classSvc service.ClassService
}

// NewClassHandler creates the ClassHandler
func NewClassHandler(classSvc service.ClassService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc}
}

// ── Classes ──

// ShowClass GET /class/:classid
func (h *ClassHandler) ShowClass(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	class, err := h.classSvc.GetClass(c.Request.Context(), user, c.Param("classid"))
	if err != nil {
		handleClassError(c, err)
		return
	}
	response.OK(c, "class", gin.H{"Class": class})
}

// AddClass POST /addclass
func (h *ClassHandler) AddClass(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.AddClassRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Malformed form.")
		return
	}

	if _, err := h.classSvc.AddClass(c.Request.Context(), user, &req); err != nil {
		handleClassError(c, err)
		return
	}
	response.Redirect(c, "/")
}

// ── Students ──

// AddStudent POST /addstudent/:classid (multipart, photo in "image")
func (h *ClassHandler) AddStudent(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	classID := c.Param("classid")

	var req dto.AddStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c)
			return
		}
		response.BadRequest(c, "Malformed form.")
		return
	}

	image, err := readImage(c)
	if err != nil {
		handleClassError(c, err)
		return
	}

	if _, err := h.classSvc.AddStudent(c.Request.Context(), user, classID, &req, image); err != nil {
		handleClassError(c, err)
		return
	}
	response.RedirectBack(c, classPath(classID))
}

// ShowStudent GET /class/:classid/student/:studentid
func (h *ClassHandler) ShowStudent(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	report, err := h.classSvc.GetStudentReport(c.Request.Context(), user, c.Param("classid"), c.Param("studentid"))
	if err != nil {
		handleClassError(c, err)
		return
	}
	response.OK(c, "student", gin.H{"Report": report})
}

// RemoveStudent DELETE /class/:classid/student/:studentid
func (h *ClassHandler) RemoveStudent(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	if err := h.classSvc.RemoveStudent(c.Request.Context(), user, c.Param("classid"), c.Param("studentid")); err != nil {
		handleClassError(c, err)
		return
	}
	c.String(http.StatusOK, "Removed student successfully")
}

// StudentImage GET /class/:classid/student/:studentid/image
func (h *ClassHandler) StudentImage(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	img, err := h.classSvc.StudentImage(c.Request.Context(), user, c.Param("classid"), c.Param("studentid"))
	if err != nil {
		handleClassError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, img.MimeType, img.Data)
}

// ── Lessons ──

// AddLesson POST /addlesson/:classid
func (h *ClassHandler) AddLesson(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	classID := c.Param("classid")

	var req dto.AddLessonRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Malformed form.")
		return
	}

	if _, err := h.classSvc.AddLesson(c.Request.Context(), user, classID, &req); err != nil {
		handleClassError(c, err)
		return
	}
	response.RedirectBack(c, classPath(classID))
}

// ShowLesson GET /class/:classid/lesson/:lessonid
func (h *ClassHandler) ShowLesson(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	view, err := h.classSvc.GetLesson(c.Request.Context(), user, c.Param("classid"), c.Param("lessonid"))
	if err != nil {
		handleClassError(c, err)
		return
	}
	response.OK(c, "lesson", gin.H{"View": view})
}

// MarkAttendance POST /class/:classid/lesson/:lessonid
// Every form key naming a student of the class marks that student present.
func (h *ClassHandler) MarkAttendance(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	classID := c.Param("classid")

	if err := c.Request.ParseForm(); err != nil {
		response.BadRequest(c, "Malformed form.")
		return
	}
	submitted := make(map[string]bool, len(c.Request.PostForm))
	for key := range c.Request.PostForm {
		submitted[key] = true
	}

	if _, err := h.classSvc.MarkAttendance(c.Request.Context(), user, classID, c.Param("lessonid"), submitted); err != nil {
		handleClassError(c, err)
		return
	}
	response.RedirectBack(c, classPath(classID))
}

// ── Helpers ──

// readImage loads the uploaded photo; a missing file yields nil
func readImage(c *gin.Context) (*model.Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return &model.Image{Data: data, MimeType: mimeType}, nil
}
