package portal

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	reportRecordsSheet = "Attendance"
	reportSummarySheet = "Summary"
)

var reportHeaders = []string{"Student ID", "Student Name", "Course", "Date", "Status"}

// BuildAttendanceReport renders records as a workbook with one row per record and a per-status summary.
// The caller must close the returned file.
func BuildAttendanceReport(title string, records []Attendance) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(reportRecordsSheet)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "creating records sheet")
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")
	if _, err := f.NewSheet(reportSummarySheet); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "creating summary sheet")
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	_ = f.SetColWidth(reportRecordsSheet, "A", "A", 14)
	_ = f.SetColWidth(reportRecordsSheet, "B", "B", 28)
	_ = f.SetColWidth(reportRecordsSheet, "C", "D", 14)
	_ = f.SetColWidth(reportRecordsSheet, "E", "E", 10)

	// title row
	_ = f.SetCellValue(reportRecordsSheet, "A1", title)
	_ = f.MergeCell(reportRecordsSheet, "A1", cell(colName(len(reportHeaders)-1), 1))
	_ = f.SetCellStyle(reportRecordsSheet, "A1", "A1", headerStyle)

	for i, h := range reportHeaders {
		_ = f.SetCellValue(reportRecordsSheet, cell(colName(i), 2), h)
	}
	_ = f.SetCellStyle(reportRecordsSheet, "A2", cell(colName(len(reportHeaders)-1), 2), headerStyle)

	row := 3
	for _, a := range records {
		values := []interface{}{a.StudentID, a.StudentName, a.CourseCode, a.Date, a.Status}
		if err := f.SetSheetRow(reportRecordsSheet, cell("A", row), &values); err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "writing row %d", row)
		}
		row++
	}

	stats := ComputeAttendanceStats(records)
	summary := [][]interface{}{
		{"Status", "Count"},
		{"Total", stats.Total},
		{"Present", stats.Present},
		{"Absent", stats.Absent},
		{"Late", stats.Late},
	}
	for i, values := range summary {
		values := values
		if err := f.SetSheetRow(reportSummarySheet, cell("A", i+1), &values); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "writing summary")
		}
	}
	_ = f.SetCellStyle(reportSummarySheet, "A1", "B1", headerStyle)
	_ = f.SetColWidth(reportSummarySheet, "A", "B", 12)

	return f, nil
}

// WriteAttendanceReport writes the attendance workbook to w.
// An empty course code reports every record.
func (p *Portal) WriteAttendanceReport(ctx context.Context, w io.Writer, courseCode string) error {
	records := p.Attendance.List(ctx)
	title := "Attendance report"
	if courseCode != "" {
		records = p.AttendanceForCourse(ctx, courseCode)
		title = fmt.Sprintf("Attendance report: %s", courseCode)
	}

	f, err := BuildAttendanceReport(title, records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		p.logger.Error("writing attendance report", err)
		return errors.Wrap(err, "writing attendance report")
	}
	return nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
