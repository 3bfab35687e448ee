package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"qrattend/internal/attendance"
	"qrattend/internal/report"
	"qrattend/internal/roster"
)

// TestEntries ensures report rows serialize with the expected header and
// field order.
func TestEntries(t *testing.T) {
	entries := []report.Entry{
		{Name: "Ada Lovelace", RegNo: "CS001", Department: roster.ComputerScience, Date: "2024-03-01", Time: "08:30:00", Status: attendance.StatusPresent},
		{Name: "Grace Hopper", RegNo: "IT002", Department: roster.InformationTech, Date: "2024-03-01", Time: "10:15:00", Status: attendance.StatusLate},
	}

	var buf bytes.Buffer
	if err := Entries(&buf, entries); err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "name" || rows[0][5] != "status" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "CS001" || rows[1][5] != "present" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][5] != "late" {
		t.Fatalf("unexpected second row: %v", rows[2])
	}
}

// TestStudentStats ensures rates serialize with one decimal place.
func TestStudentStats(t *testing.T) {
	stats := []report.StudentStats{
		{
			Student: roster.Student{Name: "Ada", RegNo: "CS001", Department: roster.ComputerScience, ParentPhone: "+1"},
			Total:   5, Present: 3, Late: 1, Absent: 1, Rate: 80,
		},
		{
			Student: roster.Student{Name: "Grace", RegNo: "IT002", Department: roster.InformationTech, ParentPhone: "+2"},
		},
	}

	var buf bytes.Buffer
	if err := StudentStats(&buf, stats); err != nil {
		t.Fatalf("StudentStats returned error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[1][8] != "80.0" {
		t.Fatalf("rate = %q, want \"80.0\"", rows[1][8])
	}
	if rows[2][4] != "0" || rows[2][8] != "0.0" {
		t.Fatalf("zero-record row serialized wrong: %v", rows[2])
	}
}
