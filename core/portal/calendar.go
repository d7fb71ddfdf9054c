package portal

import (
	"context"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/trezcool/deptportal/core"
)

const (
	calendarProductID = "-//deptportal//calendar//EN"
	calendarDomain    = "deptportal"
)

var icsWeekdays = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// BuildCalendar renders events as all-day entries and timetable slots as weekly recurring entries
// starting in the week of now. Records with unparsable dates, days or times are skipped.
func BuildCalendar(name string, events []Event, timetable []Timetable, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}
	stamp := now.UTC()

	for _, e := range events {
		day, ok := e.Day()
		if !ok {
			continue
		}
		ev := cal.AddEvent("event-" + e.ID + "@" + calendarDomain)
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		ev.SetProperty(ics.ComponentPropertyCategories, strings.ToUpper(e.Type))
		if e.IsImportant() {
			ev.SetProperty(ics.ComponentPropertyPriority, "1")
		}
	}

	monday := startOfWeek(now)
	for _, t := range timetable {
		wd, ok := core.ParseWeekday(t.Day)
		if !ok {
			continue
		}
		start, end, ok := t.Slot()
		if !ok {
			continue
		}
		day := monday.AddDate(0, 0, (int(wd)+6)%7)

		ev := cal.AddEvent("class-" + t.ID + "@" + calendarDomain)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(day.Add(start))
		ev.SetEndAt(day.Add(end))
		ev.SetSummary(strings.TrimSpace(t.CourseCode + " " + t.CourseName))
		if t.Room != "" {
			ev.SetLocation(t.Room)
		}
		if t.Lecturer != "" {
			ev.SetDescription("Lecturer: " + t.Lecturer)
		}
		ev.AddRrule("FREQ=WEEKLY;BYDAY=" + icsWeekdays[wd])
	}
	return cal
}

// WriteCalendar writes the events and the weekly timetable to w as an iCalendar document.
func (p *Portal) WriteCalendar(ctx context.Context, w io.Writer, now time.Time) error {
	var name string
	if p.conf != nil {
		name = p.conf.AppName
	}
	cal := BuildCalendar(name, p.Events.List(ctx), p.Timetable.List(ctx), now)
	return cal.SerializeTo(w)
}

// startOfWeek returns midnight UTC of the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}
