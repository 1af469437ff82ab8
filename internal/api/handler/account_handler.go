package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/response"
)

// AccountHandler principal-only account administration
type AccountHandler struct {
	authSvc service.AuthService
}

// NewAccountHandler creates the AccountHandler
func NewAccountHandler(authSvc service.AuthService) *AccountHandler {
	return &AccountHandler{authSvc: authSvc}
}

// ShowNewAccount GET /accounts/new
func (h *AccountHandler) ShowNewAccount(c *gin.Context) {
	response.OK(c, "account_new", gin.H{"Roles": model.AllRoles})
}

// CreateAccount POST /accounts/new
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Malformed form.")
		return
	}

	user, err := h.authSvc.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		data := gin.H{"Roles": model.AllRoles}
		if ve, ok := service.IsValidationError(err); ok {
			data["Errors"] = ve.Messages
			response.OK(c, "account_new", data)
			return
		}
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrPasswordMismatch) || errors.Is(err, service.ErrInvalidRole) {
			data["Message"] = err.Error()
			response.OK(c, "account_new", data)
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.OK(c, "account_new", gin.H{"Roles": model.AllRoles, "Created": user})
}
