package handler

import (
	"github.com/grvup/classroom/internal/service"
	"github.com/grvup/classroom/pkg/session"
)

// Handler aggregate entry point for all handlers
type Handler struct {
	Auth    *AuthHandler
	Page    *PageHandler
	Class   *ClassHandler
	Export  *ExportHandler
	Account *AccountHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service, sessions *session.Manager) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, sessions),
		Page:    NewPageHandler(svc.Class),
		Class:   NewClassHandler(svc.Class),
		Export:  NewExportHandler(svc.Export, svc.Calendar),
		Account: NewAccountHandler(svc.Auth),
	}
}
