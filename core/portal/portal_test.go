package portal

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/record"
	emailsvc "github.com/trezcool/deptportal/services/email"
	logsvc "github.com/trezcool/deptportal/services/logger"
	inmemkv "github.com/trezcool/deptportal/storage/kv/inmem"
)

var fixedNow = time.Date(2024, time.October, 16, 10, 0, 0, 0, time.UTC) // a Wednesday

type fixture struct {
	portal  *Portal
	storage *inmemkv.Storage
	mailer  *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) fixture {
	t.Helper()
	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { nowFunc = time.Now })

	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()
	st := inmemkv.New()
	mailer := emailsvc.NewConsoleServiceMock(conf, logger)
	var n int
	p := New(st, conf, mailer, logger, record.WithIDFunc(func() string {
		n++
		return "gen-" + strconv.Itoa(n)
	}))
	return fixture{portal: p, storage: st, mailer: mailer}
}

func initialized(t *testing.T) fixture {
	t.Helper()
	fx := setup(t)
	require.NoError(t, fx.portal.Initialize(context.Background()))
	return fx
}

func TestPortal_Initialize(t *testing.T) {
	ctx := context.Background()
	fx := initialized(t)
	p := fx.portal

	assert.Len(t, p.Courses.List(ctx), 5)
	assert.Len(t, p.Newsletters.List(ctx), 2)
	assert.Len(t, p.Events.List(ctx), 2)
	assert.Len(t, p.Timetable.List(ctx), 2)
	assert.Len(t, p.Gallery.List(ctx), 6)
	assert.Empty(t, p.Assignments.List(ctx))
	assert.Empty(t, p.Notes.List(ctx))
	assert.Empty(t, p.Attendance.List(ctx))

	for _, key := range []string{KeyAssignments, KeyNotes, KeyAttendance} {
		raw, ok, err := fx.storage.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, "[]", raw, key)
	}

	// the first course is persisted with its camelCase fields
	raw, _, err := fx.storage.Get(ctx, KeyCourses)
	require.NoError(t, err)
	assert.Contains(t, raw, `"creditHours":3`)
	assert.NotContains(t, raw, `"lecturer"`)
}

func TestPortal_Initialize_keepsExistingValues(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)
	p := fx.portal

	require.NoError(t, fx.storage.Set(ctx, KeyCourses, `[{"id":"x","code":"X1","name":"Mine","description":"","creditHours":1}]`))
	require.NoError(t, fx.storage.Set(ctx, KeyEvents, "[]"))
	require.NoError(t, p.Initialize(ctx))
	require.NoError(t, p.Initialize(ctx))

	courses := p.Courses.List(ctx)
	require.Len(t, courses, 1)
	assert.Equal(t, "Mine", courses[0].Name)
	assert.Empty(t, p.Events.List(ctx))
	assert.Len(t, p.Newsletters.List(ctx), 2)
	assert.Len(t, p.Gallery.List(ctx), 6)

	// an emptied gallery gets its default images back
	require.NoError(t, p.Gallery.ReplaceAll(ctx, nil))
	require.NoError(t, p.Initialize(ctx))
	assert.Len(t, p.Gallery.List(ctx), 6)

	// a non-empty gallery is left alone
	_, err := p.Gallery.Remove(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, p.Initialize(ctx))
	assert.Len(t, p.Gallery.List(ctx), 5)
}

func TestPortal_crud(t *testing.T) {
	ctx := context.Background()
	p := initialized(t).portal

	added, err := p.Courses.Add(ctx, Course{Code: "CYB301", Name: "Digital Forensics", CreditHours: 3, Lecturer: "Dr. Ada"})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", added.ID)
	courses := p.Courses.List(ctx)
	require.Len(t, courses, 6)
	assert.Equal(t, added, courses[5])

	added.CreditHours = 4
	updated, err := p.Courses.Update(ctx, added)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 4, p.Courses.Get(ctx, "gen-1").CreditHours)

	missing, err := p.Courses.Update(ctx, Course{ID: "404", Code: "NOPE"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := p.Courses.Remove(ctx, "gen-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = p.Courses.Remove(ctx, "gen-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, p.Courses.List(ctx), 5)
}

func TestModels_Validate(t *testing.T) {
	nowFunc = func() time.Time { return fixedNow }
	defer func() { nowFunc = time.Now }()

	fieldsOf := func(err error) []string {
		var vErr *core.ValidationError
		if !assert.ErrorAs(t, err, &vErr) {
			return nil
		}
		fields := make([]string, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			fields = append(fields, f.Field)
		}
		return fields
	}

	c := Course{Code: " CS1 ", Name: "Intro", CreditHours: 0}
	assert.Equal(t, []string{"creditHours"}, fieldsOf(c.Validate()))
	assert.Equal(t, "CS1", c.Code)

	e := Event{Title: "Talk", Date: "15/11/2024", Type: "party"}
	assert.ElementsMatch(t, []string{"date", "type"}, fieldsOf(e.Validate()))
	e = Event{Title: "Talk", Date: "2024-11-15", Type: " Notice "}
	require.NoError(t, e.Validate())
	assert.Equal(t, EventTypeNotice, e.Type)
	assert.False(t, e.IsImportant())

	tt := Timetable{CourseCode: "CS1", CourseName: "Intro", Day: "Funday", Time: "09:00-10:00"}
	assert.Equal(t, []string{"day"}, fieldsOf(tt.Validate()))
	tt.Day = "friday"
	require.NoError(t, tt.Validate())

	a := Attendance{StudentID: "CS2024001", StudentName: "Jamilu", CourseCode: "CS201", Status: "Late"}
	require.NoError(t, a.Validate())
	assert.Equal(t, StatusLate, a.Status)
	assert.Equal(t, "2024-10-16", a.Date)
	a.Status = "excused"
	assert.Equal(t, []string{"status"}, fieldsOf(a.Validate()))

	n := Note{Title: "Week 1", Content: "Slides", CourseCode: "CS201", Date: "2020-01-01"}
	require.NoError(t, n.Validate())
	assert.Equal(t, "2024-10-16", n.Date)

	g := GalleryImage{Title: "Lab"}
	assert.Equal(t, []string{"url"}, fieldsOf(g.Validate()))
	assert.Equal(t, "2024-10-16", g.Date)

	as := Assignment{Title: "Lab 1", CourseCode: "CS201"}
	assert.Equal(t, []string{"dueDate"}, fieldsOf(as.Validate()))

	nl := Newsletter{Title: "News", Date: "2020-01-01"}
	assert.Equal(t, []string{"content"}, fieldsOf(nl.Validate()))
	assert.Equal(t, "2024-10-16", nl.Date)
}

func TestTimetable_Slot(t *testing.T) {
	tests := []struct {
		time      string
		wantStart time.Duration
		wantEnd   time.Duration
		wantOK    bool
	}{
		{time: "09:00-10:30", wantStart: 9 * time.Hour, wantEnd: 10*time.Hour + 30*time.Minute, wantOK: true},
		{time: " 11:00 - 12:30 ", wantStart: 11 * time.Hour, wantEnd: 12*time.Hour + 30*time.Minute, wantOK: true},
		{time: "10:00-09:00"},
		{time: "morning"},
		{time: "9-10"},
	}
	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			start, end, ok := Timetable{Time: tt.time}.Slot()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStart, start)
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}

func TestPortal_queries(t *testing.T) {
	ctx := context.Background()
	p := initialized(t).portal

	t.Run("search courses", func(t *testing.T) {
		assert.Len(t, p.SearchCourses(ctx, ""), 5)
		got := p.SearchCourses(ctx, "SECURITY")
		require.Len(t, got, 1)
		assert.Equal(t, "CS201", got[0].Code)
		assert.Len(t, p.SearchCourses(ctx, "fud-cyb"), 2)
		assert.Len(t, p.SearchCourses(ctx, "python"), 1) // description
		assert.Empty(t, p.SearchCourses(ctx, "quantum"))
	})

	t.Run("course by code", func(t *testing.T) {
		c := p.CourseByCode(ctx, "gst223")
		require.NotNil(t, c)
		assert.Equal(t, "5", c.ID)
		assert.Nil(t, p.CourseByCode(ctx, "NONE"))
	})

	t.Run("search gallery", func(t *testing.T) {
		assert.Len(t, p.SearchGallery(ctx, "research"), 3)
		assert.Len(t, p.SearchGallery(ctx, "WORKSHOP"), 1)
	})

	t.Run("timetable", func(t *testing.T) {
		got := p.TimetableForDay(ctx, "MONDAY")
		require.Len(t, got, 1)
		assert.Equal(t, "Room 101", got[0].Room)
		assert.Empty(t, p.TimetableForDay(ctx, "Sunday"))

		week := p.Week(ctx)
		assert.Len(t, week[time.Monday], 1)
		assert.Len(t, week[time.Tuesday], 1)
		assert.Empty(t, week[time.Friday])
	})

	t.Run("events on", func(t *testing.T) {
		got := p.EventsOn(ctx, time.Date(2024, time.November, 15, 18, 0, 0, 0, time.UTC))
		require.Len(t, got, 1)
		assert.Equal(t, "Cybersecurity Conference 2024", got[0].Title)
		assert.Empty(t, p.EventsOn(ctx, fixedNow))
	})

	t.Run("upcoming events", func(t *testing.T) {
		_, err := p.Events.Add(ctx, Event{Title: "Today", Date: "2024-10-16", Type: EventTypeEvent})
		require.NoError(t, err)
		_, err = p.Events.Add(ctx, Event{Title: "Past", Date: "2024-10-01", Type: EventTypeEvent})
		require.NoError(t, err)
		_, err = p.Events.Add(ctx, Event{Title: "Broken", Date: "soon", Type: EventTypeEvent})
		require.NoError(t, err)

		got := p.UpcomingEvents(ctx, fixedNow, UpcomingEventsMax)
		titles := make([]string, 0, len(got))
		for _, e := range got {
			titles = append(titles, e.Title)
		}
		assert.Equal(t, []string{"Today", "Final Exam Schedule Released", "Cybersecurity Conference 2024"}, titles)
		assert.Len(t, p.UpcomingEvents(ctx, fixedNow, 1), 1)

		assert.Len(t, p.ImportantEvents(ctx), 2)
	})

	t.Run("recent", func(t *testing.T) {
		assert.Len(t, p.RecentNewsletters(ctx, HomeNewsletters), 2)
		assert.Len(t, p.RecentEvents(ctx, HomeEvents), 4)
		assert.Equal(t, "1", p.RecentEvents(ctx, 1)[0].ID)
		assert.Empty(t, p.RecentNotes(ctx, DashboardItems))
	})
}

func TestPortal_courseWork(t *testing.T) {
	ctx := context.Background()
	p := initialized(t).portal

	for _, a := range []Assignment{
		{Title: "Lab 1", CourseCode: "CS201", DueDate: "2024-10-30"},
		{Title: "Essay", CourseCode: "GST223", DueDate: "2024-11-01"},
		{Title: "Lab 2", CourseCode: "cs201", DueDate: "2024-11-06"},
	} {
		_, err := p.Assignments.Add(ctx, a)
		require.NoError(t, err)
	}
	_, err := p.Notes.Add(ctx, Note{Title: "Week 1", Content: "Slides", CourseCode: "CS201"})
	require.NoError(t, err)

	assert.Len(t, p.AssignmentsForCourse(ctx, "CS201"), 2)
	assert.Len(t, p.NotesForCourse(ctx, "cs201"), 1)
	assert.Empty(t, p.NotesForCourse(ctx, "GST223"))
	assert.Len(t, p.RecentAssignments(ctx, 2), 2)

	for _, a := range []Attendance{
		{StudentID: "CS2024001", StudentName: "Jamilu", CourseCode: "CS201", Date: "2024-10-14", Status: StatusPresent},
		{StudentID: "CS2024001", StudentName: "Jamilu", CourseCode: "CS201", Date: "2024-10-15", Status: StatusLate},
		{StudentID: "CS2024002", StudentName: "Amina", CourseCode: "CS201", Date: "2024-10-15", Status: StatusAbsent},
		{StudentID: "CS2024002", StudentName: "Amina", CourseCode: "GST223", Date: "2024-10-15", Status: StatusPresent},
	} {
		_, err := p.Attendance.Add(ctx, a)
		require.NoError(t, err)
	}

	assert.Len(t, p.AttendanceForStudent(ctx, "CS2024001"), 2)
	assert.Len(t, p.AttendanceForCourse(ctx, "cs201"), 3)

	stats := p.AttendanceStats(ctx)
	assert.Equal(t, AttendanceStats{Total: 4, Present: 2, Absent: 1, Late: 1}, stats)
	assert.InDelta(t, 0.75, stats.Rate(), 1e-9)
	assert.Zero(t, AttendanceStats{}.Rate())
}

func TestPortal_SubmitContact(t *testing.T) {
	ctx := context.Background()
	fx := initialized(t)
	p := fx.portal

	_, err := p.SubmitContact(ctx, ContactMessage{Name: "Visitor", Email: "nope"})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, p.ContactSubmissions.List(ctx))
	assert.Empty(t, fx.mailer.SentMessages())

	sub, err := p.SubmitContact(ctx, ContactMessage{
		Name:    " Visitor ",
		Email:   "visitor@example.com",
		Subject: "Admissions",
		Message: "When does the next intake start?",
	})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "gen-1", sub.ID)
	assert.Equal(t, "Visitor", sub.Name)
	assert.Equal(t, "2024-10-16T10:00:00Z", sub.Timestamp)

	stored := p.ContactSubmissions.List(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, *sub, stored[0])

	sent := fx.mailer.SentMessages()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, "office@test.test", msg.To[0].Address)
	require.NotNil(t, msg.ReplyTo)
	assert.Equal(t, "visitor@example.com", msg.ReplyTo.Address)
	assert.Equal(t, "Admissions", msg.Subject)
	assert.Contains(t, msg.TextContent, "When does the next intake start?")
	assert.Contains(t, msg.TextContent, "Visitor <visitor@example.com>")
	assert.Contains(t, msg.HTMLContent, "Admissions")
}

func TestBuildCalendar(t *testing.T) {
	ctx := context.Background()
	p := initialized(t).portal
	_, err := p.Events.Add(ctx, Event{Title: "Undated", Date: "tbd", Type: EventTypeEvent})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.WriteCalendar(ctx, &buf, fixedNow))

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 4, "2 events + 2 timetable slots, undated event skipped")

	byID := make(map[string]*ics.VEvent)
	for _, ev := range events {
		byID[ev.Id()] = ev
	}

	conf := byID["event-1@deptportal"]
	require.NotNil(t, conf)
	assert.Equal(t, "Cybersecurity Conference 2024", conf.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "20241115", conf.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "1", conf.GetProperty(ics.ComponentPropertyPriority).Value)

	class := byID["class-1@deptportal"]
	require.NotNil(t, class)
	assert.Equal(t, "20241014T090000Z", class.GetProperty(ics.ComponentPropertyDtStart).Value) // monday of fixedNow's week
	assert.Equal(t, "20241014T103000Z", class.GetProperty(ics.ComponentPropertyDtEnd).Value)
	rrule := class.GetProperty(ics.ComponentPropertyRrule).Value
	assert.Contains(t, rrule, "FREQ=WEEKLY")
	assert.Contains(t, rrule, "BYDAY=MO")
	assert.Equal(t, "Room 101", class.GetProperty(ics.ComponentPropertyLocation).Value)
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2024, time.October, 20, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.October, 14, 0, 0, 0, 0, time.UTC), startOfWeek(sunday))
	assert.Equal(t, time.Date(2024, time.October, 14, 0, 0, 0, 0, time.UTC), startOfWeek(fixedNow))
}

func TestPortal_WriteAttendanceReport(t *testing.T) {
	ctx := context.Background()
	p := initialized(t).portal
	for _, a := range []Attendance{
		{StudentID: "CS2024001", StudentName: "Jamilu", CourseCode: "CS201", Date: "2024-10-14", Status: StatusPresent},
		{StudentID: "CS2024002", StudentName: "Amina", CourseCode: "CS201", Date: "2024-10-14", Status: StatusAbsent},
		{StudentID: "CS2024002", StudentName: "Amina", CourseCode: "GST223", Date: "2024-10-15", Status: StatusLate},
	} {
		_, err := p.Attendance.Add(ctx, a)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, p.WriteAttendanceReport(ctx, &buf, "CS201"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportRecordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4) // title, header, 2 records
	assert.Equal(t, "Attendance report: CS201", rows[0][0])
	assert.Equal(t, reportHeaders, rows[1])
	assert.Equal(t, []string{"CS2024001", "Jamilu", "CS201", "2024-10-14", "present"}, rows[2])

	summary, err := f.GetRows(reportSummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Status", "Count"},
		{"Total", "2"},
		{"Present", "1"},
		{"Absent", "1"},
		{"Late", "0"},
	}, summary)

	buf.Reset()
	require.NoError(t, p.WriteAttendanceReport(ctx, &buf, ""))
	f2, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f2.Close()
	rows, err = f2.GetRows(reportRecordsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
