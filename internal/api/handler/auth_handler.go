package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/response"
	"github.com/grvup/classroom/pkg/session"
)

// AuthHandler signup, login and logout
type AuthHandler struct {
	authSvc  service.AuthService
	sessions *session.Manager
}

// NewAuthHandler creates the AuthHandler
func NewAuthHandler(authSvc service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessions: sessions}
}

// ShowSignup GET /signup; signed-in callers go home
func (h *AuthHandler) ShowSignup(c *gin.Context) {
	if currentUser(c) != nil {
		response.Redirect(c, "/")
		return
	}
	response.OK(c, "signup", nil)
}

// Signup POST /signup
// Public signups always create a Principal account.
// Form values are not echoed back when the form is rejected.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Malformed form.")
		return
	}

	_, token, err := h.authSvc.Signup(c.Request.Context(), &req)
	if err != nil {
		if ve, ok := service.IsValidationError(err); ok {
			response.OK(c, "signup", gin.H{"Errors": ve.Messages})
			return
		}
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrPasswordMismatch) {
			response.OK(c, "signup", gin.H{"Message": err.Error()})
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	if err := h.sessions.SetCookie(c.Writer, token); err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.Redirect(c, "/")
}

// ShowLogin GET /login; signed-in callers go home
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if currentUser(c) != nil {
		response.Redirect(c, "/")
		return
	}
	response.OK(c, "login", nil)
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Malformed form.")
		return
	}

	_, token, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			response.OK(c, "login", gin.H{"Message": err.Error()})
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	if err := h.sessions.SetCookie(c.Writer, token); err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.Redirect(c, "/")
}

// Logout GET /logout
// The cookie is always expired; the stored token is cleared when the
// cookie still resolves to a user.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := h.sessions.ReadCookie(c.Request); err == nil {
		if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
			_ = c.Error(err)
		}
	}
	h.sessions.ClearCookie(c.Writer)
	response.Redirect(c, "/")
}
