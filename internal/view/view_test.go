package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
)

func TestTemplates_AllPagesDefined(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	pages := []string{
		"intro", "login", "signup", "livestream", "troll", "home",
		"class", "lesson", "student", "account_new", "404", "error",
	}
	for _, p := range pages {
		if tmpl.Lookup(p) == nil {
			t.Errorf("page %q is not defined", p)
		}
	}
}

func TestTemplates_StudentWithoutLessons(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	class := &model.Class{ID: "c1", ClassName: "Math"}
	student := class.AddStudent(model.Student{FirstName: "Ada", LastName: "Lovelace"})

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "student", map[string]interface{}{
		"Report": &dto.StudentReport{Class: class, Student: &student},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No lessons yet.") {
		t.Error("a class without lessons shows no percentage")
	}
	if strings.Contains(out, "NaN") {
		t.Error("no NaN may leak into the page")
	}
}

func TestTemplates_StudentPercentage(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	class := &model.Class{ID: "c1", ClassName: "Math"}
	student := class.AddStudent(model.Student{FirstName: "Ada"})

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "student", map[string]interface{}{
		"Report": &dto.StudentReport{
			Class:      class,
			Student:    &student,
			History:    []model.LessonAttendance{{LessonName: "A", Present: true}, {LessonName: "B"}, {LessonName: "C"}},
			Present:    1,
			Percentage: 33,
			HasLessons: true,
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "33%") {
		t.Error("expected the percentage to be shown")
	}
}
