package echoapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/portal"
	"github.com/trezcool/deptportal/core/user"
)

const (
	mimeCalendar = "text/calendar; charset=utf-8"
	mimeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type portalApi struct {
	p   *portal.Portal
	now func() time.Time
}

func registerPortalAPI(g *echo.Group, guards guards, p *portal.Portal, now func() time.Time) {
	api := portalApi{p: p, now: now}

	staff := guards.roles(user.RoleStaff)
	lecturer := guards.roles(user.RoleLecturer)
	public := collectionAccess{read: nil, create: staff, modify: staff}
	courseWork := collectionAccess{read: guards.authed(), create: lecturer, modify: lecturer}

	// public pages
	g.GET("/home", api.home)
	g.GET("/calendar.ics", api.calendar)
	g.POST("/contact", api.contact)
	g.GET("/contact", api.contactSubmissions, staff...)

	cg := g.Group("/courses")
	cg.GET("/search", api.searchCourses)
	cg.GET("/code/:code", api.courseByCode)
	registerCollectionAPI[portal.Course](cg, p.Courses, public)

	registerCollectionAPI[portal.Newsletter](g.Group("/newsletters"), p.Newsletters, public)

	eg := g.Group("/events")
	eg.GET("/upcoming", api.upcomingEvents)
	eg.GET("/important", api.importantEvents)
	eg.GET("/on/:date", api.eventsOn)
	registerCollectionAPI[portal.Event](eg, p.Events, public)

	tg := g.Group("/timetable")
	tg.GET("/week", api.week)
	tg.GET("/day/:day", api.timetableForDay)
	registerCollectionAPI[portal.Timetable](tg, p.Timetable, public)

	gg := g.Group("/gallery")
	gg.GET("/search", api.searchGallery)
	registerCollectionAPI[portal.GalleryImage](gg, p.Gallery, collectionAccess{
		create: guards.roles(user.RoleStaff, user.RoleLecturer),
		modify: staff,
	})

	// course work
	g.GET("/dashboard", api.dashboard, guards.authed()...)

	ag := g.Group("/assignments")
	ag.GET("/course/:code", api.assignmentsForCourse, guards.authed()...)
	registerCollectionAPI[portal.Assignment](ag, p.Assignments, courseWork)

	ng := g.Group("/notes")
	ng.GET("/course/:code", api.notesForCourse, guards.authed()...)
	registerCollectionAPI[portal.Note](ng, p.Notes, courseWork)

	atg := g.Group("/attendance")
	atg.GET("/stats", api.attendanceStats, guards.authed()...)
	atg.GET("/course/:code", api.attendanceForCourse, lecturer...)
	atg.GET("/student/:id", api.attendanceForStudent, guards.authed()...)
	atg.GET("/report.xlsx", api.attendanceReport, lecturer...)
	registerCollectionAPI[portal.Attendance](atg, p.Attendance, courseWork)
}

// Handlers

func (api *portalApi) home(ctx echo.Context) error {
	c := ctx.Request().Context()
	return ctx.JSON(http.StatusOK, HomeResponse{
		Newsletters: api.p.RecentNewsletters(c, portal.HomeNewsletters),
		Events:      api.p.RecentEvents(c, portal.HomeEvents),
	})
}

func (api *portalApi) dashboard(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	c := ctx.Request().Context()

	var attendance []portal.Attendance
	if usr.IsStudent() {
		attendance = api.p.AttendanceForStudent(c, usr.StudentID)
	} else {
		attendance = api.p.Attendance.List(c)
	}
	return ctx.JSON(http.StatusOK, DashboardResponse{
		User:        usr,
		Assignments: api.p.RecentAssignments(c, portal.DashboardItems),
		Notes:       api.p.RecentNotes(c, portal.DashboardItems),
		Attendance:  portal.ComputeAttendanceStats(attendance),
	})
}

func (api *portalApi) searchCourses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.SearchCourses(ctx.Request().Context(), ctx.QueryParam(searchParam)))
}

func (api *portalApi) courseByCode(ctx echo.Context) error {
	course := api.p.CourseByCode(ctx.Request().Context(), ctx.Param("code"))
	if course == nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *portalApi) upcomingEvents(ctx echo.Context) error {
	n := bindLimit(ctx, portal.UpcomingEventsMax)
	return ctx.JSON(http.StatusOK, api.p.UpcomingEvents(ctx.Request().Context(), api.now(), n))
}

func (api *portalApi) importantEvents(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.ImportantEvents(ctx.Request().Context()))
}

func (api *portalApi) eventsOn(ctx echo.Context) error {
	date, err := bindDate(ctx, "date")
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.p.EventsOn(ctx.Request().Context(), date))
}

func (api *portalApi) week(ctx echo.Context) error {
	week := api.p.Week(ctx.Request().Context())
	res := make(map[string][]portal.Timetable, len(week))
	for day, slots := range week {
		res[day.String()] = slots
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *portalApi) timetableForDay(ctx echo.Context) error {
	day := ctx.Param("day")
	if _, ok := core.ParseWeekday(day); !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "day", Error: "must be a weekday name (eg. Monday)"})
	}
	return ctx.JSON(http.StatusOK, api.p.TimetableForDay(ctx.Request().Context(), day))
}

func (api *portalApi) searchGallery(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.SearchGallery(ctx.Request().Context(), ctx.QueryParam(searchParam)))
}

func (api *portalApi) assignmentsForCourse(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.AssignmentsForCourse(ctx.Request().Context(), ctx.Param("code")))
}

func (api *portalApi) notesForCourse(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.NotesForCourse(ctx.Request().Context(), ctx.Param("code")))
}

func (api *portalApi) attendanceForCourse(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.AttendanceForCourse(ctx.Request().Context(), ctx.Param("code")))
}

// attendanceForStudent lets students read their own records only.
func (api *portalApi) attendanceForStudent(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id := ctx.Param("id")
	if usr.IsStudent() && usr.StudentID != id {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, api.p.AttendanceForStudent(ctx.Request().Context(), id))
}

func (api *portalApi) attendanceStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.AttendanceStats(ctx.Request().Context()))
}

func (api *portalApi) attendanceReport(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := api.p.WriteAttendanceReport(ctx.Request().Context(), &buf, ctx.QueryParam(courseParam)); err != nil {
		return errors.Wrap(err, "writing attendance report")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="attendance.xlsx"`)
	return ctx.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

func (api *portalApi) calendar(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := api.p.WriteCalendar(ctx.Request().Context(), &buf, api.now()); err != nil {
		return errors.Wrap(err, "writing calendar")
	}
	return ctx.Blob(http.StatusOK, mimeCalendar, buf.Bytes())
}

func (api *portalApi) contact(ctx echo.Context) error {
	var data portal.ContactMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ContactMessage")
	}

	sub, err := api.p.SubmitContact(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *portalApi) contactSubmissions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.p.ContactSubmissions.List(ctx.Request().Context()))
}

type (
	HomeResponse struct {
		Newsletters []portal.Newsletter `json:"newsletters"`
		Events      []portal.Event      `json:"events"`
	}

	DashboardResponse struct {
		User        user.User              `json:"user"`
		Assignments []portal.Assignment    `json:"assignments"`
		Notes       []portal.Note          `json:"notes"`
		Attendance  portal.AttendanceStats `json:"attendance"`
	}
)
