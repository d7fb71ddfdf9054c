package portal

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/deptportal/core"
)

// Home page and dashboard list sizes
const (
	HomeNewsletters   = 3
	HomeEvents        = 4
	DashboardItems    = 5
	UpcomingEventsMax = 5
)

// SearchCourses returns the courses whose name, code or description contains term, ignoring case.
// An empty term matches every course.
func (p *Portal) SearchCourses(ctx context.Context, term string) []Course {
	term = strings.TrimSpace(term)
	return p.Courses.Filter(ctx, func(c Course) bool {
		return core.ContainsFold(c.Name, term) || core.ContainsFold(c.Code, term) || core.ContainsFold(c.Description, term)
	})
}

// CourseByCode returns the course with the given code, ignoring case, or nil.
func (p *Portal) CourseByCode(ctx context.Context, code string) *Course {
	code = strings.TrimSpace(code)
	for _, c := range p.Courses.List(ctx) {
		if strings.EqualFold(c.Code, code) {
			c := c
			return &c
		}
	}
	return nil
}

// SearchGallery returns the images whose title or description contains term, ignoring case.
func (p *Portal) SearchGallery(ctx context.Context, term string) []GalleryImage {
	term = strings.TrimSpace(term)
	return p.Gallery.Filter(ctx, func(g GalleryImage) bool {
		return core.ContainsFold(g.Title, term) || core.ContainsFold(g.Description, term)
	})
}

// TimetableForDay returns the slots held on the given weekday name, ignoring case.
func (p *Portal) TimetableForDay(ctx context.Context, day string) []Timetable {
	day = strings.TrimSpace(day)
	return p.Timetable.Filter(ctx, func(t Timetable) bool {
		return strings.EqualFold(t.Day, day)
	})
}

// Week returns the timetable grouped by weekday, Monday first.
func (p *Portal) Week(ctx context.Context) map[time.Weekday][]Timetable {
	week := make(map[time.Weekday][]Timetable)
	for _, t := range p.Timetable.List(ctx) {
		if d, ok := core.ParseWeekday(t.Day); ok {
			week[d] = append(week[d], t)
		}
	}
	return week
}

// EventsOn returns the events dated on the calendar day of date.
func (p *Portal) EventsOn(ctx context.Context, date time.Time) []Event {
	day := date.Format(core.DateLayout)
	return p.Events.Filter(ctx, func(e Event) bool {
		d, ok := e.Day()
		return ok && d.Format(core.DateLayout) == day
	})
}

// UpcomingEvents returns at most n events dated on or after the day of now, soonest first.
// Events with unparsable dates are skipped.
func (p *Portal) UpcomingEvents(ctx context.Context, now time.Time, n int) []Event {
	from, _ := parseDate(now.Format(core.DateLayout))
	events := p.Events.Filter(ctx, func(e Event) bool {
		d, ok := e.Day()
		return ok && !d.Before(from)
	})
	sort.SliceStable(events, func(i, j int) bool {
		di, _ := events[i].Day()
		dj, _ := events[j].Day()
		return di.Before(dj)
	})
	if n >= 0 && n < len(events) {
		events = events[:n]
	}
	return events
}

// ImportantEvents returns the events flagged important, in stored order.
func (p *Portal) ImportantEvents(ctx context.Context) []Event {
	return p.Events.Filter(ctx, Event.IsImportant)
}

func (p *Portal) RecentNewsletters(ctx context.Context, n int) []Newsletter {
	return p.Newsletters.First(ctx, n)
}

func (p *Portal) RecentEvents(ctx context.Context, n int) []Event {
	return p.Events.First(ctx, n)
}

func (p *Portal) RecentAssignments(ctx context.Context, n int) []Assignment {
	return p.Assignments.First(ctx, n)
}

func (p *Portal) RecentNotes(ctx context.Context, n int) []Note {
	return p.Notes.First(ctx, n)
}

// AssignmentsForCourse matches course codes ignoring case.
func (p *Portal) AssignmentsForCourse(ctx context.Context, code string) []Assignment {
	code = strings.TrimSpace(code)
	return p.Assignments.Filter(ctx, func(a Assignment) bool { return strings.EqualFold(a.CourseCode, code) })
}

// NotesForCourse matches course codes ignoring case.
func (p *Portal) NotesForCourse(ctx context.Context, code string) []Note {
	code = strings.TrimSpace(code)
	return p.Notes.Filter(ctx, func(n Note) bool { return strings.EqualFold(n.CourseCode, code) })
}

func (p *Portal) AttendanceForStudent(ctx context.Context, studentID string) []Attendance {
	studentID = strings.TrimSpace(studentID)
	return p.Attendance.Filter(ctx, func(a Attendance) bool { return a.StudentID == studentID })
}

func (p *Portal) AttendanceForCourse(ctx context.Context, code string) []Attendance {
	code = strings.TrimSpace(code)
	return p.Attendance.Filter(ctx, func(a Attendance) bool { return strings.EqualFold(a.CourseCode, code) })
}

// AttendanceStats counts attendance records per status.
type AttendanceStats struct {
	Total   int `json:"totalRecords"`
	Present int `json:"presentCount"`
	Absent  int `json:"absentCount"`
	Late    int `json:"lateCount"`
}

// Rate returns the share of records marked present or late, between 0 and 1.
func (s AttendanceStats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Present+s.Late) / float64(s.Total)
}

func ComputeAttendanceStats(records []Attendance) AttendanceStats {
	stats := AttendanceStats{Total: len(records)}
	for _, a := range records {
		switch a.Status {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusLate:
			stats.Late++
		}
	}
	return stats
}

func (p *Portal) AttendanceStats(ctx context.Context) AttendanceStats {
	return ComputeAttendanceStats(p.Attendance.List(ctx))
}
