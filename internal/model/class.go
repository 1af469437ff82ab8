package model

// Class a class aggregate. Students and lessons live inside the class and
// are addressed by (class id, child id); the whole aggregate is loaded,
// modified and saved as one document.
type Class struct {
	ID          string    `json:"id"`
	ClassName   string    `json:"className"`
	ClassLevel  string    `json:"classLevel"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	OwnerUserID string    `json:"userid"`
	Students    []Student `json:"students"`
	Lessons     []Lesson  `json:"lessons"`
	Version     int       `json:"version"`
	BaseModel
}

// Student embedded in a Class
type Student struct {
	ID          string `json:"_id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"DOB"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Image       Image  `json:"image"`
}

// FullName "First Last"
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Image uploaded student photo
type Image struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimetype"`
}

// Lesson embedded in a Class. Attendance holds the identifiers of students
// marked present; it only ever grows.
type Lesson struct {
	ID         string   `json:"_id"`
	LessonName string   `json:"lessonName"`
	Notes      string   `json:"textarea"`
	LessonDate string   `json:"lessonDate"`
	Attendance []string `json:"attendance"`
}

// Attended reports whether studentID appears in the attendance list
func (l *Lesson) Attended(studentID string) bool {
	for _, id := range l.Attendance {
		if id == studentID {
			return true
		}
	}
	return false
}

// ── Aggregate helpers ──

// Student finds an embedded student by id
func (c *Class) Student(id string) *Student {
	for i := range c.Students {
		if c.Students[i].ID == id {
			return &c.Students[i]
		}
	}
	return nil
}

// Lesson finds an embedded lesson by id
func (c *Class) Lesson(id string) *Lesson {
	for i := range c.Lessons {
		if c.Lessons[i].ID == id {
			return &c.Lessons[i]
		}
	}
	return nil
}

// AddStudent appends s, assigning an identifier when it has none
func (c *Class) AddStudent(s Student) Student {
	if s.ID == "" {
		s.ID = NewID()
	}
	c.Students = append(c.Students, s)
	return s
}

// RemoveStudent drops the student with id. Attendance lists keep the id;
// it is ignored from then on because it no longer resolves.
func (c *Class) RemoveStudent(id string) bool {
	for i := range c.Students {
		if c.Students[i].ID == id {
			c.Students = append(c.Students[:i], c.Students[i+1:]...)
			return true
		}
	}
	return false
}

// AddLesson appends l, assigning an identifier when it has none
func (c *Class) AddLesson(l Lesson) Lesson {
	if l.ID == "" {
		l.ID = NewID()
	}
	if l.Attendance == nil {
		l.Attendance = []string{}
	}
	c.Lessons = append(c.Lessons, l)
	return l
}

// MarkPresent appends to the lesson's attendance the id of every class
// student contained in submitted, in class order. Identifiers that are not
// students of this class are ignored. Nothing is deduplicated: marking the
// same student twice records them twice.
func (c *Class) MarkPresent(lessonID string, submitted map[string]bool) (appended int, ok bool) {
	lesson := c.Lesson(lessonID)
	if lesson == nil {
		return 0, false
	}
	for _, s := range c.Students {
		if submitted[s.ID] {
			lesson.Attendance = append(lesson.Attendance, s.ID)
			appended++
		}
	}
	return appended, true
}

// SplitAttendance partitions the class students into those present at the
// lesson and those absent, both in class order. Each student appears once.
func (c *Class) SplitAttendance(lesson *Lesson) (present, absent []Student) {
	present = []Student{}
	absent = []Student{}
	for _, s := range c.Students {
		if lesson.Attended(s.ID) {
			present = append(present, s)
		} else {
			absent = append(absent, s)
		}
	}
	return present, absent
}
