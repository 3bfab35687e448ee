// Package export renders report data as CSV for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"qrattend/internal/report"
)

// Entries writes attendance report rows as CSV.
func Entries(w io.Writer, entries []report.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "reg_no", "department", "date", "time", "status"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Name, e.RegNo, string(e.Department), e.Date, e.Time, string(e.Status)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// StudentStats writes the per-student statistics table as CSV.
func StudentStats(w io.Writer, stats []report.StudentStats) error {
	cw := csv.NewWriter(w)
	header := []string{
		"name", "reg_no", "department", "parent_phone",
		"total_records", "present_count", "late_count", "absent_count", "attendance_rate",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, st := range stats {
		rec := []string{
			st.Student.Name,
			st.Student.RegNo,
			string(st.Student.Department),
			st.Student.ParentPhone,
			strconv.Itoa(st.Total),
			strconv.Itoa(st.Present),
			strconv.Itoa(st.Late),
			strconv.Itoa(st.Absent),
			strconv.FormatFloat(st.Rate, 'f', 1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
