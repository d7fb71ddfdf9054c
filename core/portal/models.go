package portal

import (
	"strings"
	"time"

	"github.com/trezcool/deptportal/core"
)

// Collection keys
const (
	KeyCourses            = "courses"
	KeyNewsletters        = "newsletters"
	KeyEvents             = "events"
	KeyTimetable          = "timetable"
	KeyGallery            = "gallery"
	KeyAssignments        = "assignments"
	KeyNotes              = "notes"
	KeyAttendance         = "attendance"
	KeyContactSubmissions = "contactSubmissions"
)

// Event types
const (
	EventTypeEvent  = "event"
	EventTypeNotice = "notice"
)

// Attendance statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

type Course struct {
	ID          string `json:"id"`
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	CreditHours int    `json:"creditHours" validate:"gt=0"`
	Lecturer    string `json:"lecturer,omitempty"`
}

func (c Course) GetID() string { return c.ID }

func (c Course) WithID(id string) Course {
	c.ID = id
	return c
}

func (c *Course) Validate() error {
	c.Code = core.CleanString(c.Code)
	c.Name = core.CleanString(c.Name)
	return core.ValidateStruct(c)
}

type Newsletter struct {
	ID      string `json:"id"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author"`
	Date    string `json:"date" validate:"isodate"`
	Image   string `json:"image,omitempty"`
}

func (n Newsletter) GetID() string { return n.ID }

func (n Newsletter) WithID(id string) Newsletter {
	n.ID = id
	return n
}

// Validate stamps the newsletter with today's date.
func (n *Newsletter) Validate() error {
	n.Title = core.CleanString(n.Title)
	n.Date = today()
	return core.ValidateStruct(n)
}

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,isodate"`
	Type        string `json:"type" validate:"required,oneof=event notice"`
	Important   *bool  `json:"important,omitempty"`
}

func (e Event) GetID() string { return e.ID }

func (e Event) WithID(id string) Event {
	e.ID = id
	return e
}

func (e *Event) Validate() error {
	e.Title = core.CleanString(e.Title)
	e.Type = core.CleanString(e.Type, true /* lower */)
	return core.ValidateStruct(e)
}

// IsImportant reports whether the event is flagged important. An unset flag is not important.
func (e Event) IsImportant() bool { return e.Important != nil && *e.Important }

// Day parses the event date. ok is false for dates not formatted as YYYY-MM-DD.
func (e Event) Day() (t time.Time, ok bool) {
	return parseDate(e.Date)
}

// Timetable is one weekly class slot.
type Timetable struct {
	ID         string `json:"id"`
	CourseCode string `json:"courseCode" validate:"required"`
	CourseName string `json:"courseName" validate:"required"`
	Day        string `json:"day" validate:"required,weekday"`
	Time       string `json:"time" validate:"required"`
	Room       string `json:"room"`
	Lecturer   string `json:"lecturer"`
}

func (t Timetable) GetID() string { return t.ID }

func (t Timetable) WithID(id string) Timetable {
	t.ID = id
	return t
}

func (t *Timetable) Validate() error {
	t.CourseCode = core.CleanString(t.CourseCode)
	t.Day = core.CleanString(t.Day)
	return core.ValidateStruct(t)
}

// Slot splits Time ("09:00-10:30") into its start and end clock times.
func (t Timetable) Slot() (start, end time.Duration, ok bool) {
	parts := strings.SplitN(t.Time, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseClock(parts[1])
	if !ok || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

type GalleryImage struct {
	ID          string `json:"id"`
	URL         string `json:"url" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"omitempty,isodate"`
}

func (g GalleryImage) GetID() string { return g.ID }

func (g GalleryImage) WithID(id string) GalleryImage {
	g.ID = id
	return g
}

// Validate defaults an empty date to today.
func (g *GalleryImage) Validate() error {
	g.Title = core.CleanString(g.Title)
	g.URL = core.CleanString(g.URL)
	if g.Date == "" {
		g.Date = today()
	}
	return core.ValidateStruct(g)
}

type Assignment struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	CourseCode  string   `json:"courseCode" validate:"required"`
	DueDate     string   `json:"dueDate" validate:"required,isodate"`
	UploadedBy  string   `json:"uploadedBy"`
	Attachments []string `json:"attachments,omitempty"`
}

func (a Assignment) GetID() string { return a.ID }

func (a Assignment) WithID(id string) Assignment {
	a.ID = id
	return a
}

func (a *Assignment) Validate() error {
	a.Title = core.CleanString(a.Title)
	a.CourseCode = core.CleanString(a.CourseCode)
	return core.ValidateStruct(a)
}

type Note struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	CourseCode  string   `json:"courseCode" validate:"required"`
	UploadedBy  string   `json:"uploadedBy"`
	Date        string   `json:"date" validate:"omitempty,isodate"`
	Attachments []string `json:"attachments,omitempty"`
}

func (n Note) GetID() string { return n.ID }

func (n Note) WithID(id string) Note {
	n.ID = id
	return n
}

// Validate stamps the note with today's date, as every upload or edit does.
func (n *Note) Validate() error {
	n.Title = core.CleanString(n.Title)
	n.CourseCode = core.CleanString(n.CourseCode)
	n.Date = today()
	return core.ValidateStruct(n)
}

type Attendance struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId" validate:"required"`
	StudentName string `json:"studentName" validate:"required"`
	CourseCode  string `json:"courseCode" validate:"required"`
	Date        string `json:"date" validate:"required,isodate"`
	Status      string `json:"status" validate:"required,oneof=present absent late"`
}

func (a Attendance) GetID() string { return a.ID }

func (a Attendance) WithID(id string) Attendance {
	a.ID = id
	return a
}

func (a *Attendance) Validate() error {
	a.StudentID = core.CleanString(a.StudentID)
	a.CourseCode = core.CleanString(a.CourseCode)
	a.Status = core.CleanString(a.Status, true /* lower */)
	if a.Date == "" {
		a.Date = today()
	}
	return core.ValidateStruct(a)
}

// ContactMessage is what a visitor submits through the contact form.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (cm *ContactMessage) Validate() error {
	cm.Name = core.CleanString(cm.Name)
	cm.Email = core.CleanString(cm.Email)
	cm.Subject = core.CleanString(cm.Subject)
	cm.Message = strings.TrimSpace(cm.Message)
	return core.ValidateStruct(cm)
}

// ContactSubmission is a stored ContactMessage.
type ContactSubmission struct {
	ContactMessage
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

func (cs ContactSubmission) GetID() string { return cs.ID }

func (cs ContactSubmission) WithID(id string) ContactSubmission {
	cs.ID = id
	return cs
}

var nowFunc = time.Now

func today() string {
	return nowFunc().Format(core.DateLayout)
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(core.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseClock(s string) (time.Duration, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}
