package service

import (
	"go.uber.org/zap"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/internal/repository"
)

// Service aggregate entry point for all services
type Service struct {
	Auth     AuthService
	Class    ClassService
	Export   ExportService
	Calendar CalendarService
}

// NewService creates the Service aggregate
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, logger),
		Class:    NewClassService(repo, logger),
		Export:   NewExportService(repo, logger),
		Calendar: NewCalendarService(cfg, repo, logger),
	}
}
