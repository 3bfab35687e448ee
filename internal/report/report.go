// Package report aggregates recorded attendance into summaries, per-student
// statistics, and the joined rows the presentation layer renders and exports.
// Everything here is read-only over already-recorded data.
package report

import (
	"context"
	"math"

	"qrattend/internal/attendance"
	"qrattend/internal/roster"
)

// Summary holds per-status counts over a date range.
type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
}

// StudentStats holds one student's lifetime attendance tallies.
type StudentStats struct {
	Student roster.Student `json:"student"`
	Total   int            `json:"total"`
	Present int            `json:"present"`
	Late    int            `json:"late"`
	Absent  int            `json:"absent"`
	Rate    float64        `json:"rate"`
}

// StudentCounts is the raw per-student tally the store produces.
type StudentCounts struct {
	Student roster.Student
	Present int
	Late    int
	Absent  int
}

// Entry is one attendance row joined with its student, the shape reports
// display and CSV exports serialize.
type Entry struct {
	Name       string            `json:"name"`
	RegNo      string            `json:"reg_no"`
	Department roster.Department `json:"department"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Status     attendance.Status `json:"status"`
}

// Dashboard holds the at-a-glance counts for a single day.
type Dashboard struct {
	TotalStudents int     `json:"total_students"`
	TodayTotal    int     `json:"today_total"`
	TodayPresent  int     `json:"today_present"`
	TodayLate     int     `json:"today_late"`
	TodayRate     float64 `json:"today_rate"`
}

// Store is the read-only query surface the aggregator needs. A dept of ""
// means no department filter.
type Store interface {
	StatusCounts(ctx context.Context, start, end string, dept roster.Department) (present, late, absent int, err error)
	StudentCounts(ctx context.Context) ([]StudentCounts, error)
	Entries(ctx context.Context, start, end string, dept roster.Department) ([]Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
	DashboardCounts(ctx context.Context, today string) (students, total, present, late int, err error)
}

// Aggregator computes report data over the shared store.
type Aggregator struct {
	store Store
}

// NewAggregator creates an aggregator backed by a store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Summary counts records whose date falls within [start, end] inclusive,
// optionally restricted to one department. Total is the sum of the three
// status counts, so the partition always adds up.
func (a *Aggregator) Summary(ctx context.Context, start, end string, dept roster.Department) (Summary, error) {
	present, late, absent, err := a.store.StatusCounts(ctx, start, end, dept)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Total:   present + late + absent,
		Present: present,
		Late:    late,
		Absent:  absent,
	}, nil
}

// StudentStats tallies every student's records, zero-record students
// included, ordered by name.
func (a *Aggregator) StudentStats(ctx context.Context) ([]StudentStats, error) {
	counts, err := a.store.StudentCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats := make([]StudentStats, 0, len(counts))
	for _, c := range counts {
		total := c.Present + c.Late + c.Absent
		stats = append(stats, StudentStats{
			Student: c.Student,
			Total:   total,
			Present: c.Present,
			Late:    c.Late,
			Absent:  c.Absent,
			Rate:    Rate(c.Present+c.Late, total),
		})
	}
	return stats, nil
}

// Entries returns the joined rows for a range, newest first.
func (a *Aggregator) Entries(ctx context.Context, start, end string, dept roster.Department) ([]Entry, error) {
	return a.store.Entries(ctx, start, end, dept)
}

// Recent returns the latest check-ins across all students.
func (a *Aggregator) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return a.store.Recent(ctx, limit)
}

// Dashboard computes the single-day overview for the given date.
func (a *Aggregator) Dashboard(ctx context.Context, today string) (Dashboard, error) {
	students, total, present, late, err := a.store.DashboardCounts(ctx, today)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		TotalStudents: students,
		TodayTotal:    total,
		TodayPresent:  present,
		TodayLate:     late,
		TodayRate:     Rate(total, students),
	}, nil
}

// Rate returns attended/total as a percentage rounded to one decimal. A zero
// total yields 0; the denominator is clamped to 1 only for the division, the
// displayed counts are untouched.
func Rate(attended, total int) float64 {
	denom := total
	if denom == 0 {
		denom = 1
	}
	return math.Round(float64(attended)/float64(denom)*100*10) / 10
}
