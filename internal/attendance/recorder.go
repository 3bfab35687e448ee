// Package attendance records check-ins and classifies them by time of day.
package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qrattend/internal/roster"
)

// Status classifies a check-in.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// Layouts for the stored date and time columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Classify maps a check-in time to a status. Only the hour component is
// consulted: through hour 9 is present, hour 10 is late, later hours are
// absent. 9:01 and 9:59 classify identically while 10:01 flips to absent;
// the coarseness is a deliberate simplification, not an oversight.
func Classify(at time.Time) Status {
	switch hour := at.Hour(); {
	case hour <= 9:
		return StatusPresent
	case hour <= 10:
		return StatusLate
	default:
		return StatusAbsent
	}
}

// Record is one check-in event. Rows are written once and never mutated;
// there is no correction workflow.
type Record struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultKind distinguishes check-in outcomes. None of them is an error.
type ResultKind string

const (
	// Recorded means a new record was written.
	Recorded ResultKind = "recorded"
	// AlreadyRecorded means the student already checked in on that date;
	// the first record of the day is authoritative.
	AlreadyRecorded ResultKind = "already_recorded"
	// UnknownIdentifier means the token matched no student. Nothing written.
	UnknownIdentifier ResultKind = "unknown_identifier"
)

// Result is the outcome of a check-in attempt. Record holds the new row for
// Recorded and the day's existing row for AlreadyRecorded.
type Result struct {
	Kind    ResultKind      `json:"result"`
	Student *roster.Student `json:"student,omitempty"`
	Record  Record          `json:"record"`
}

// Roster resolves scan tokens to students.
type Roster interface {
	ByBarcode(ctx context.Context, barcode string) (*roster.Student, error)
}

// Store persists attendance records. Insert reports inserted=false when the
// (student, date) row already exists, which is how a lost race surfaces.
type Store interface {
	Insert(ctx context.Context, rec Record) (Record, bool, error)
	ByStudentDate(ctx context.Context, studentID int64, date string) (*Record, error)
}

// Recorder turns scanned tokens into attendance records.
type Recorder struct {
	roster Roster
	store  Store
}

// NewRecorder creates a recorder over a roster lookup and a record store.
func NewRecorder(roster Roster, store Store) *Recorder {
	return &Recorder{roster: roster, store: store}
}

// Record resolves the token and writes at most one record for the student on
// at's calendar date. The timestamp is caller-supplied so classification is
// deterministic; production callers pass the current time.
func (r *Recorder) Record(ctx context.Context, barcode string, at time.Time) (Result, error) {
	student, err := r.roster.ByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return Result{}, err
	}
	if student == nil {
		return Result{Kind: UnknownIdentifier}, nil
	}

	date := at.Format(DateLayout)
	existing, err := r.store.ByStudentDate(ctx, student.ID, date)
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		return Result{Kind: AlreadyRecorded, Student: student, Record: *existing}, nil
	}

	rec := Record{
		StudentID: student.ID,
		Date:      date,
		Time:      at.Format(TimeLayout),
		Status:    Classify(at),
	}
	created, inserted, err := r.store.Insert(ctx, rec)
	if err != nil {
		return Result{}, err
	}
	if !inserted {
		// Lost a same-day race; return the row the winner wrote.
		existing, err := r.store.ByStudentDate(ctx, student.ID, date)
		if err != nil {
			return Result{}, err
		}
		if existing == nil {
			return Result{}, fmt.Errorf("attendance: conflicting record for student %d on %s not found", student.ID, date)
		}
		return Result{Kind: AlreadyRecorded, Student: student, Record: *existing}, nil
	}
	return Result{Kind: Recorded, Student: student, Record: created}, nil
}
