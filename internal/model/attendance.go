package model

import "math"

// AttendancePercentage returns round(100 * present / total). The second
// result is false when total is zero: there is no percentage to show for a
// class without lessons.
func AttendancePercentage(present, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	return int(math.Round(100 * float64(present) / float64(total))), true
}

// LessonAttendance one row of a student's attendance history
type LessonAttendance struct {
	LessonID   string
	LessonName string
	LessonDate string
	Present    bool
}

// StudentHistory per-lesson presence of studentID across the class lessons,
// in lesson order
func (c *Class) StudentHistory(studentID string) (rows []LessonAttendance, present int) {
	rows = make([]LessonAttendance, 0, len(c.Lessons))
	for i := range c.Lessons {
		l := &c.Lessons[i]
		attended := l.Attended(studentID)
		if attended {
			present++
		}
		rows = append(rows, LessonAttendance{
			LessonID:   l.ID,
			LessonName: l.LessonName,
			LessonDate: l.LessonDate,
			Present:    attended,
		})
	}
	return rows, present
}
