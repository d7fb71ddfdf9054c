// Package portal holds the department content collections and the read-side features built on them.
package portal

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/record"
)

// Portal bundles one record.Collection per content key over a single storage.
type Portal struct {
	Courses            *record.Collection[Course]
	Newsletters        *record.Collection[Newsletter]
	Events             *record.Collection[Event]
	Timetable          *record.Collection[Timetable]
	Gallery            *record.Collection[GalleryImage]
	Assignments        *record.Collection[Assignment]
	Notes              *record.Collection[Note]
	Attendance         *record.Collection[Attendance]
	ContactSubmissions *record.Collection[ContactSubmission]

	conf   *core.Config
	email  core.EmailService
	logger core.Logger
}

func New(storage core.Storage, conf *core.Config, email core.EmailService, logger core.Logger, opts ...record.Option) *Portal {
	return &Portal{
		Courses:            record.NewCollection[Course](storage, KeyCourses, logger, opts...),
		Newsletters:        record.NewCollection[Newsletter](storage, KeyNewsletters, logger, opts...),
		Events:             record.NewCollection[Event](storage, KeyEvents, logger, opts...),
		Timetable:          record.NewCollection[Timetable](storage, KeyTimetable, logger, opts...),
		Gallery:            record.NewCollection[GalleryImage](storage, KeyGallery, logger, opts...),
		Assignments:        record.NewCollection[Assignment](storage, KeyAssignments, logger, opts...),
		Notes:              record.NewCollection[Note](storage, KeyNotes, logger, opts...),
		Attendance:         record.NewCollection[Attendance](storage, KeyAttendance, logger, opts...),
		ContactSubmissions: record.NewCollection[ContactSubmission](storage, KeyContactSubmissions, logger, opts...),
		conf:               conf,
		email:              email,
		logger:             logger,
	}
}

// Initialize writes the default content of every collection whose key holds no value yet.
// The gallery additionally receives its default images whenever it is empty.
// Existing values are never overwritten.
func (p *Portal) Initialize(ctx context.Context) error {
	seeds := []struct {
		key  string
		seed func() (bool, error)
	}{
		{KeyCourses, func() (bool, error) { return p.Courses.Seed(ctx, defaultCourses()) }},
		{KeyNewsletters, func() (bool, error) { return p.Newsletters.Seed(ctx, defaultNewsletters()) }},
		{KeyEvents, func() (bool, error) { return p.Events.Seed(ctx, defaultEvents()) }},
		{KeyTimetable, func() (bool, error) { return p.Timetable.Seed(ctx, defaultTimetable()) }},
		{KeyGallery, func() (bool, error) { return p.Gallery.Seed(ctx, nil) }},
		{KeyAssignments, func() (bool, error) { return p.Assignments.Seed(ctx, nil) }},
		{KeyNotes, func() (bool, error) { return p.Notes.Seed(ctx, nil) }},
		{KeyAttendance, func() (bool, error) { return p.Attendance.Seed(ctx, nil) }},
	}
	for _, s := range seeds {
		seeded, err := s.seed()
		if err != nil {
			return errors.Wrapf(err, "seeding %s", s.key)
		}
		if seeded {
			p.logger.Debug("collection seeded", map[string]interface{}{"key": s.key})
		}
	}

	if len(p.Gallery.List(ctx)) == 0 {
		if err := p.Gallery.ReplaceAll(ctx, defaultGallery()); err != nil {
			return errors.Wrap(err, "seeding gallery images")
		}
		p.logger.Debug("default gallery images added")
	}
	return nil
}
