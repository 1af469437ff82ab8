package dto

import "github.com/grvup/classroom/internal/model"

// ── Class forms ──

// AddClassRequest POST /addclass
type AddClassRequest struct {
	ClassName  string `form:"className"`
	ClassLevel string `form:"level"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
}

// AddStudentRequest POST /addstudent/:classid, multipart with an "image" file
type AddStudentRequest struct {
	FirstName   string `form:"firstName"`
	LastName    string `form:"lastName"`
	DateOfBirth string `form:"DOB"`
	Address     string `form:"address"`
	City        string `form:"city"`
	Country     string `form:"country"`
}

// AddLessonRequest POST /addlesson/:classid
type AddLessonRequest struct {
	LessonName string `form:"lessonName"`
	Notes      string `form:"textarea"`
	LessonDate string `form:"lessonDate"`
}

// ── View models ──

// LessonView a lesson with its present/absent split
type LessonView struct {
	Class   *model.Class
	Lesson  *model.Lesson
	Present []model.Student
	Absent  []model.Student
}

// StudentReport a student's attendance history in one class
type StudentReport struct {
	Class      *model.Class
	Student    *model.Student
	History    []model.LessonAttendance
	Present    int
	Percentage int
	HasLessons bool // false when the class has no lessons yet
}

// Export a generated file ready to be sent as a download
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}
