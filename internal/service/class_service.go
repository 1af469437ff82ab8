package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/repository"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// ── Class errors ──

var (
	ErrClassNotFound   = errors.New("Class not found")
	ErrStudentNotFound = errors.New("Student not found")
	ErrLessonNotFound  = errors.New("Lesson not found")
	ErrImageRequired   = errors.New("a student photo is required")
	ErrImageNotFound   = errors.New("Image not found")
)

// ClassService class, student, lesson and attendance operations. Every
// method is scoped to classes owned by the caller; a class owned by someone
// else is reported as ErrClassNotFound.
type ClassService interface {
	ListClasses(ctx context.Context, caller *model.User) ([]model.Class, error)
	GetClass(ctx context.Context, caller *model.User, classID string) (*model.Class, error)
	AddClass(ctx context.Context, caller *model.User, req *dto.AddClassRequest) (*model.Class, error)

	AddStudent(ctx context.Context, caller *model.User, classID string, req *dto.AddStudentRequest, image *model.Image) (*model.Student, error)
	RemoveStudent(ctx context.Context, caller *model.User, classID, studentID string) error
	StudentImage(ctx context.Context, caller *model.User, classID, studentID string) (*model.Image, error)
	GetStudentReport(ctx context.Context, caller *model.User, classID, studentID string) (*dto.StudentReport, error)

	AddLesson(ctx context.Context, caller *model.User, classID string, req *dto.AddLessonRequest) (*model.Lesson, error)
	GetLesson(ctx context.Context, caller *model.User, classID, lessonID string) (*dto.LessonView, error)
	// MarkAttendance appends every class student found in submitted to the
	// lesson's attendance and returns how many entries were appended
	MarkAttendance(ctx context.Context, caller *model.User, classID, lessonID string, submitted map[string]bool) (int, error)
}

type classService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassService creates the ClassService
func NewClassService(repo *repository.Repository, logger *zap.Logger) ClassService {
	return &classService{repo: repo, logger: logger}
}

// ── Classes ──

func (s *classService) ListClasses(ctx context.Context, caller *model.User) ([]model.Class, error) {
	classes, err := s.repo.Class.ListByOwner(ctx, caller.ID)
	if err != nil {
		s.logger.Error("list classes failed", zap.String("user_id", caller.ID), zap.Error(err))
		return nil, err
	}
	return classes, nil
}

func (s *classService) GetClass(ctx context.Context, caller *model.User, classID string) (*model.Class, error) {
	return s.loadOwned(ctx, caller, classID)
}

func (s *classService) AddClass(ctx context.Context, caller *model.User, req *dto.AddClassRequest) (*model.Class, error) {
	class := &model.Class{
		ClassName:   req.ClassName,
		ClassLevel:  req.ClassLevel,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		OwnerUserID: caller.ID,
		Students:    []model.Student{},
		Lessons:     []model.Lesson{},
	}
	if err := s.repo.Class.Create(ctx, class); err != nil {
		s.logger.Error("create class failed", zap.String("user_id", caller.ID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("class added", zap.String("class_id", class.ID), zap.String("user_id", caller.ID))
	return class, nil
}

// ── Students ──

func (s *classService) AddStudent(
	ctx context.Context,
	caller *model.User,
	classID string,
	req *dto.AddStudentRequest,
	image *model.Image,
) (*model.Student, error) {
	class, err := s.loadOwned(ctx, caller, classID)
	if err != nil {
		return nil, err
	}
	if image == nil || len(image.Data) == 0 {
		return nil, ErrImageRequired
	}

	student := class.AddStudent(model.Student{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Image:       *image,
	})
	if err := s.save(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info("student added", zap.String("class_id", class.ID), zap.String("student_id", student.ID))
	return &student, nil
}

func (s *classService) RemoveStudent(ctx context.Context, caller *model.User, classID, studentID string) error {
	class, err := s.loadOwned(ctx, caller, classID)
	if err != nil {
		return err
	}
	if !class.RemoveStudent(studentID) {
		return ErrStudentNotFound
	}
	if err := s.save(ctx, class); err != nil {
		return err
	}

	s.logger.Info("student removed", zap.String("class_id", class.ID), zap.String("student_id", studentID))
	return nil
}

func (s *classService) StudentImage(ctx context.Context, caller *model.User, classID, studentID string) (*model.Image, error) {
	class, err := s.loadOwned(ctx, caller, classID)
	if err != nil {
		return nil, err
	}
	student := class.Student(studentID)
	if student == nil {
		return nil, ErrStudentNotFound
	}
	if len(student.Image.Data) == 0 {
		return nil, ErrImageNotFound
	}
	img := student.Image
	return &img, nil
}

func (s *classService) GetStudentReport(ctx context.Context, caller *model.User, classID, studentID string) (*dto.StudentReport, error) {
	class, err := s.loadOwned(ctx, caller, classID)
	if err != nil {
		return nil, err
	}
	student := class.Student(studentID)
	if student == nil {
		return nil, ErrStudentNotFound
	}

	history, present := class.StudentHistory(studentID)
	pct, ok := model.AttendancePercentage(present, len(class.Lessons))

	return &dto.StudentReport{
		Class:      class,
		Student:    student,
		History:    history,
		Present:    present,
		Percentage: pct,
		HasLessons: ok,
	}, nil
}

// ── Lessons & attendance ──

func (s *classService) AddLesson(ctx context.Context, caller *model.User, classID string, req *dto.AddLessonRequest) (*model.Lesson, error) {
	class, err := s.loadOwned(ctx, caller, classID)
	if err != nil {
		return nil, err
	}

	lesson := class.AddLesson(model.Lesson{
		LessonName: req.LessonName,
		Notes:      req.Notes,
		LessonDate: req.LessonDate,
	})
	if err := s.save(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info("lesson added", zap.String("class_id", class.ID), zap.String("lesson_id", lesson.ID))
	return &lesson, nil
}

func (s *classService) GetLesson(ctx context.Context, caller *model.User, classID, lessonID string) (*dto.LessonView, error) {
	class, err := s.loadOwned(ctx, caller, classID)
	if err != nil {
		return nil, err
	}
	lesson := class.Lesson(lessonID)
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	present, absent := class.SplitAttendance(lesson)
	return &dto.LessonView{
		Class:   class,
		Lesson:  lesson,
		Present: present,
		Absent:  absent,
	}, nil
}

func (s *classService) MarkAttendance(
	ctx context.Context,
	caller *model.User,
	classID, lessonID string,
	submitted map[string]bool,
) (int, error) {
	class, err := s.loadOwned(ctx, caller, classID)
	if err != nil {
		return 0, err
	}

	appended, ok := class.MarkPresent(lessonID, submitted)
	if !ok {
		return 0, ErrLessonNotFound
	}
	if err := s.save(ctx, class); err != nil {
		return 0, err
	}

	s.logger.Info("attendance updated",
		zap.String("class_id", class.ID),
		zap.String("lesson_id", lessonID),
		zap.Int("appended", appended),
	)
	return appended, nil
}

// ── Helpers ──

func (s *classService) loadOwned(ctx context.Context, caller *model.User, classID string) (*model.Class, error) {
	class, err := s.repo.Class.GetOwned(ctx, classID, caller.ID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("load class failed", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}
	return class, nil
}

// save persists the aggregate. A concurrent modification surfaces as
// pkgerrors.ErrOptimisticLock.
func (s *classService) save(ctx context.Context, class *model.Class) error {
	if err := s.repo.Class.Save(ctx, class); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Warn("class modified concurrently", zap.String("class_id", class.ID))
			return err
		}
		s.logger.Error("save class failed", zap.String("class_id", class.ID), zap.Error(err))
		return err
	}
	return nil
}
