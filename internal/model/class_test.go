package model

import "testing"

func newTestClass() *Class {
	c := &Class{ID: NewID(), ClassName: "Math", OwnerUserID: NewID()}
	c.AddStudent(Student{ID: "s1", FirstName: "Ada", LastName: "Lovelace"})
	c.AddStudent(Student{ID: "s2", FirstName: "Alan", LastName: "Turing"})
	c.AddStudent(Student{ID: "s3", FirstName: "Grace", LastName: "Hopper"})
	c.AddLesson(Lesson{ID: "l1", LessonName: "Algebra"})
	return c
}

func TestClass_AddStudent_AssignsID(t *testing.T) {
	c := &Class{}
	s := c.AddStudent(Student{FirstName: "New"})
	if !IsID(s.ID) {
		t.Fatalf("expected generated id, got %q", s.ID)
	}
	if c.Student(s.ID) == nil {
		t.Error("student should be addressable by its id")
	}
}

func TestClass_AddLesson_EmptyAttendance(t *testing.T) {
	c := &Class{}
	l := c.AddLesson(Lesson{LessonName: "Intro"})
	if l.Attendance == nil || len(l.Attendance) != 0 {
		t.Errorf("expected empty attendance, got %v", l.Attendance)
	}
}

func TestClass_RemoveStudent(t *testing.T) {
	c := newTestClass()

	if !c.RemoveStudent("s2") {
		t.Fatal("expected s2 to be removed")
	}
	if len(c.Students) != 2 || c.Student("s2") != nil {
		t.Errorf("s2 still present: %+v", c.Students)
	}
	if c.Students[0].ID != "s1" || c.Students[1].ID != "s3" {
		t.Errorf("order not preserved: %+v", c.Students)
	}
}

func TestClass_RemoveStudent_Missing(t *testing.T) {
	c := newTestClass()

	if c.RemoveStudent("nope") {
		t.Fatal("removing an unknown student must report false")
	}
	if len(c.Students) != 3 {
		t.Errorf("class mutated: %d students", len(c.Students))
	}
}

func TestClass_MarkPresent_IgnoresForeignIDs(t *testing.T) {
	c := newTestClass()

	n, ok := c.MarkPresent("l1", map[string]bool{"s3": true, "s1": true, "intruder": true})
	if !ok {
		t.Fatal("lesson should be found")
	}
	if n != 2 {
		t.Errorf("expected 2 appended, got %d", n)
	}
	got := c.Lesson("l1").Attendance
	if len(got) != 2 || got[0] != "s1" || got[1] != "s3" {
		t.Errorf("expected [s1 s3] in class order, got %v", got)
	}
}

func TestClass_MarkPresent_AppendsDuplicates(t *testing.T) {
	c := newTestClass()

	c.MarkPresent("l1", map[string]bool{"s1": true})
	c.MarkPresent("l1", map[string]bool{"s1": true})

	got := c.Lesson("l1").Attendance
	if len(got) != 2 || got[0] != "s1" || got[1] != "s1" {
		t.Errorf("resubmission should append again, got %v", got)
	}
}

func TestClass_MarkPresent_UnknownLesson(t *testing.T) {
	c := newTestClass()

	if _, ok := c.MarkPresent("l9", map[string]bool{"s1": true}); ok {
		t.Error("unknown lesson must report not found")
	}
}

func TestClass_SplitAttendance(t *testing.T) {
	c := newTestClass()
	lesson := c.Lesson("l1")
	lesson.Attendance = []string{"s2", "s2", "ghost"}

	present, absent := c.SplitAttendance(lesson)
	if len(present) != 1 || present[0].ID != "s2" {
		t.Errorf("expected [s2] present, got %+v", present)
	}
	if len(absent) != 2 || absent[0].ID != "s1" || absent[1].ID != "s3" {
		t.Errorf("expected [s1 s3] absent, got %+v", absent)
	}
}

func TestStudent_FullName(t *testing.T) {
	cases := map[string]Student{
		"Ada Lovelace": {FirstName: "Ada", LastName: "Lovelace"},
		"Ada":          {FirstName: "Ada"},
		"Lovelace":     {LastName: "Lovelace"},
	}
	for want, s := range cases {
		if got := s.FullName(); got != want {
			t.Errorf("FullName() = %q, want %q", got, want)
		}
	}
}
