package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// ── Helpers ──

var (
	teacherA = &model.User{ID: model.NewID(), Name: "A", Role: model.RoleTeacher}
	teacherB = &model.User{ID: model.NewID(), Name: "B", Role: model.RoleTeacher}
)

func setupClassService() (ClassService, *mockClassRepo) {
	repo, _, classes := newMockRepository()
	return NewClassService(repo, zap.NewNop()), classes
}

func photo() *model.Image {
	return &model.Image{Data: []byte{0xff, 0xd8, 0xff}, MimeType: "image/jpeg"}
}

// seedClass a class of owner with the given students and lessons
func seedClass(t *testing.T, svc ClassService, owner *model.User, students, lessons int) (*model.Class, []string, []string) {
	t.Helper()
	ctx := context.Background()

	class, err := svc.AddClass(ctx, owner, &dto.AddClassRequest{ClassName: "Math", ClassLevel: "5", StartDate: "2024-01-01", EndDate: "2024-06-30"})
	if err != nil {
		t.Fatalf("add class: %v", err)
	}
	var sids, lids []string
	for i := 0; i < students; i++ {
		s, err := svc.AddStudent(ctx, owner, class.ID, &dto.AddStudentRequest{FirstName: "S", LastName: string(rune('a' + i))}, photo())
		if err != nil {
			t.Fatalf("add student: %v", err)
		}
		sids = append(sids, s.ID)
	}
	for i := 0; i < lessons; i++ {
		l, err := svc.AddLesson(ctx, owner, class.ID, &dto.AddLessonRequest{LessonName: "L", LessonDate: "2024-02-0" + string(rune('1'+i))})
		if err != nil {
			t.Fatalf("add lesson: %v", err)
		}
		lids = append(lids, l.ID)
	}
	return class, sids, lids
}

// ═══════════════════════════════════════════════════════════
// Ownership
// ═══════════════════════════════════════════════════════════

func TestClassService_ForeignClassIsNotFound(t *testing.T) {
	svc, classes := setupClassService()
	ctx := context.Background()
	class, sids, lids := seedClass(t, svc, teacherB, 1, 1)
	before := classes.stored(class.ID)

	if _, err := svc.GetClass(ctx, teacherA, class.ID); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("GetClass: expected ErrClassNotFound, got %v", err)
	}
	if _, err := svc.AddStudent(ctx, teacherA, class.ID, &dto.AddStudentRequest{}, photo()); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("AddStudent: expected ErrClassNotFound, got %v", err)
	}
	if _, err := svc.AddLesson(ctx, teacherA, class.ID, &dto.AddLessonRequest{}); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("AddLesson: expected ErrClassNotFound, got %v", err)
	}
	if err := svc.RemoveStudent(ctx, teacherA, class.ID, sids[0]); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("RemoveStudent: expected ErrClassNotFound, got %v", err)
	}
	if _, err := svc.MarkAttendance(ctx, teacherA, class.ID, lids[0], map[string]bool{sids[0]: true}); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("MarkAttendance: expected ErrClassNotFound, got %v", err)
	}
	if _, err := svc.GetStudentReport(ctx, teacherA, class.ID, sids[0]); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("GetStudentReport: expected ErrClassNotFound, got %v", err)
	}
	if _, err := svc.StudentImage(ctx, teacherA, class.ID, sids[0]); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("StudentImage: expected ErrClassNotFound, got %v", err)
	}

	after := classes.stored(class.ID)
	if after.Version != before.Version || len(after.Students) != 1 || len(after.Lessons[0].Attendance) != 0 {
		t.Error("foreign requests must not modify the class")
	}

	list, _ := svc.ListClasses(ctx, teacherA)
	if len(list) != 0 {
		t.Errorf("A should see no classes, got %d", len(list))
	}
}

// ═══════════════════════════════════════════════════════════
// Students
// ═══════════════════════════════════════════════════════════

func TestClassService_AddStudent_RequiresImage(t *testing.T) {
	svc, classes := setupClassService()
	class, _, _ := seedClass(t, svc, teacherA, 0, 0)

	_, err := svc.AddStudent(context.Background(), teacherA, class.ID, &dto.AddStudentRequest{FirstName: "X"}, nil)
	if !errors.Is(err, ErrImageRequired) {
		t.Errorf("expected ErrImageRequired, got %v", err)
	}
	if len(classes.stored(class.ID).Students) != 0 {
		t.Error("no student should be stored")
	}
}

func TestClassService_RemoveStudent(t *testing.T) {
	svc, classes := setupClassService()
	ctx := context.Background()
	class, sids, _ := seedClass(t, svc, teacherA, 2, 0)

	if err := svc.RemoveStudent(ctx, teacherA, class.ID, sids[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	stored := classes.stored(class.ID)
	if len(stored.Students) != 1 || stored.Students[0].ID != sids[1] {
		t.Errorf("unexpected students after removal: %+v", stored.Students)
	}
}

func TestClassService_RemoveStudent_NotFound(t *testing.T) {
	svc, classes := setupClassService()
	class, _, _ := seedClass(t, svc, teacherA, 1, 0)
	before := classes.stored(class.ID)
	saves := classes.saves

	err := svc.RemoveStudent(context.Background(), teacherA, class.ID, model.NewID())
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
	if classes.saves != saves || classes.stored(class.ID).Version != before.Version {
		t.Error("class must not be written")
	}
}

func TestClassService_StudentImage(t *testing.T) {
	svc, _ := setupClassService()
	class, sids, _ := seedClass(t, svc, teacherA, 1, 0)

	img, err := svc.StudentImage(context.Background(), teacherA, class.ID, sids[0])
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	if img.MimeType != "image/jpeg" || len(img.Data) != 3 {
		t.Errorf("unexpected image %+v", img)
	}
}

// ═══════════════════════════════════════════════════════════
// Attendance
// ═══════════════════════════════════════════════════════════

func TestClassService_MarkAttendance_AppendsDuplicates(t *testing.T) {
	svc, classes := setupClassService()
	ctx := context.Background()
	class, sids, lids := seedClass(t, svc, teacherA, 2, 1)

	form := map[string]bool{sids[0]: true, "not-a-student": true}
	for i := 0; i < 2; i++ {
		n, err := svc.MarkAttendance(ctx, teacherA, class.ID, lids[0], form)
		if err != nil {
			t.Fatalf("mark %d: %v", i, err)
		}
		if n != 1 {
			t.Errorf("mark %d: expected 1 appended, got %d", i, n)
		}
	}

	att := classes.stored(class.ID).Lessons[0].Attendance
	if len(att) != 2 || att[0] != sids[0] || att[1] != sids[0] {
		t.Errorf("expected the student twice, got %v", att)
	}

	view, err := svc.GetLesson(ctx, teacherA, class.ID, lids[0])
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}
	if len(view.Present) != 1 || view.Present[0].ID != sids[0] {
		t.Errorf("present should list the student once: %+v", view.Present)
	}
	if len(view.Absent) != 1 || view.Absent[0].ID != sids[1] {
		t.Errorf("unexpected absent list: %+v", view.Absent)
	}
}

func TestClassService_MarkAttendance_UnknownLesson(t *testing.T) {
	svc, _ := setupClassService()
	class, sids, _ := seedClass(t, svc, teacherA, 1, 0)

	_, err := svc.MarkAttendance(context.Background(), teacherA, class.ID, model.NewID(), map[string]bool{sids[0]: true})
	if !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestClassService_GetLesson_RemovedStudentIgnored(t *testing.T) {
	svc, _ := setupClassService()
	ctx := context.Background()
	class, sids, lids := seedClass(t, svc, teacherA, 2, 1)

	_, _ = svc.MarkAttendance(ctx, teacherA, class.ID, lids[0], map[string]bool{sids[0]: true, sids[1]: true})
	_ = svc.RemoveStudent(ctx, teacherA, class.ID, sids[0])

	view, err := svc.GetLesson(ctx, teacherA, class.ID, lids[0])
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}
	if len(view.Present) != 1 || view.Present[0].ID != sids[1] || len(view.Absent) != 0 {
		t.Errorf("dangling ids must be ignored: present=%+v absent=%+v", view.Present, view.Absent)
	}
}

func TestClassService_GetStudentReport(t *testing.T) {
	svc, _ := setupClassService()
	ctx := context.Background()
	class, sids, lids := seedClass(t, svc, teacherA, 1, 3)

	_, _ = svc.MarkAttendance(ctx, teacherA, class.ID, lids[1], map[string]bool{sids[0]: true})

	report, err := svc.GetStudentReport(ctx, teacherA, class.ID, sids[0])
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Present != 1 || report.Percentage != 33 || !report.HasLessons {
		t.Errorf("expected 1/3 = 33%%, got %d / %d%% (%v)", report.Present, report.Percentage, report.HasLessons)
	}
	if len(report.History) != 3 || report.History[0].Present || !report.History[1].Present {
		t.Errorf("unexpected history %+v", report.History)
	}
}

func TestClassService_GetStudentReport_NoLessons(t *testing.T) {
	svc, _ := setupClassService()
	class, sids, _ := seedClass(t, svc, teacherA, 1, 0)

	report, err := svc.GetStudentReport(context.Background(), teacherA, class.ID, sids[0])
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.HasLessons || report.Percentage != 0 {
		t.Errorf("a class without lessons has no percentage: %+v", report)
	}
}

func TestClassService_GetStudentReport_UnknownStudent(t *testing.T) {
	svc, _ := setupClassService()
	class, _, _ := seedClass(t, svc, teacherA, 0, 1)

	if _, err := svc.GetStudentReport(context.Background(), teacherA, class.ID, model.NewID()); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Concurrency
// ═══════════════════════════════════════════════════════════

func TestClassService_ConcurrentWriteConflict(t *testing.T) {
	repo, _, classes := newMockRepository()
	svc := NewClassService(repo, zap.NewNop())
	ctx := context.Background()
	class, _, _ := seedClass(t, svc, teacherA, 0, 0)

	// another request saved the class after this one loaded it
	stale, _ := classes.GetOwned(ctx, class.ID, teacherA.ID)
	if _, err := svc.AddLesson(ctx, teacherA, class.ID, &dto.AddLessonRequest{LessonName: "first"}); err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	stale.AddLesson(model.Lesson{LessonName: "second"})
	if err := classes.Save(ctx, stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("stale save should be rejected, got %v", err)
	}

	classes.saveErr = pkgerrors.ErrOptimisticLock
	_, err := svc.AddLesson(ctx, teacherA, class.ID, &dto.AddLessonRequest{LessonName: "third"})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock from the service, got %v", err)
	}
	if n := len(classes.stored(class.ID).Lessons); n != 1 {
		t.Errorf("only the first lesson should persist, got %d", n)
	}
}
