package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/repository"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

const (
	lessonDateLayout = "2006-01-02"
	icsContentType   = "text/calendar; charset=utf-8"
)

// CalendarService iCalendar exports
type CalendarService interface {
	// LessonCalendar one all-day event per lesson with a YYYY-MM-DD date;
	// lessons with any other date text are left out
	LessonCalendar(ctx context.Context, caller *model.User, classID string) (*dto.Export, error)
}

type calendarService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService creates the CalendarService
func NewCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

func (s *calendarService) LessonCalendar(ctx context.Context, caller *model.User, classID string) (*dto.Export, error) {
	class, err := s.repo.Class.GetOwned(ctx, classID, caller.ID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("load class failed", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//classroom//lessons//EN")
	cal.SetName(class.ClassName)

	stamp := s.now().UTC()
	host := s.uidHost()
	skipped := 0

	for _, l := range class.Lessons {
		day, err := time.Parse(lessonDateLayout, strings.TrimSpace(l.LessonDate))
		if err != nil {
			skipped++
			continue
		}

		ev := cal.AddEvent(l.ID + "@" + host)
		ev.SetDtStampTime(stamp)
		ev.SetSummary(l.LessonName)
		if l.Notes != "" {
			ev.SetDescription(l.Notes)
		}
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetURL(s.lessonURL(class.ID, l.ID))
	}

	if skipped > 0 {
		s.logger.Debug("lessons without a calendar date skipped",
			zap.String("class_id", class.ID), zap.Int("skipped", skipped))
	}

	return &dto.Export{
		Filename:    fileSafe(class.ClassName) + "_lessons.ics",
		ContentType: icsContentType,
		Data:        []byte(cal.Serialize()),
	}, nil
}

func (s *calendarService) uidHost() string {
	if u, err := url.Parse(s.cfg.Server.BaseURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "classroom"
}

func (s *calendarService) lessonURL(classID, lessonID string) string {
	return fmt.Sprintf("%s/class/%s/lesson/%s", strings.TrimRight(s.cfg.Server.BaseURL, "/"), classID, lessonID)
}
