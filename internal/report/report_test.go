package report

import (
	"context"
	"testing"

	"qrattend/internal/roster"
)

// fakeStore returns canned counts and records the arguments it was called
// with so filter pass-through can be asserted.
type fakeStore struct {
	present, late, absent int
	studentCounts         []StudentCounts
	entries               []Entry

	gotStart, gotEnd string
	gotDept          roster.Department
	gotLimit         int

	dashStudents, dashTotal, dashPresent, dashLate int
}

func (f *fakeStore) StatusCounts(_ context.Context, start, end string, dept roster.Department) (int, int, int, error) {
	f.gotStart, f.gotEnd, f.gotDept = start, end, dept
	return f.present, f.late, f.absent, nil
}

func (f *fakeStore) StudentCounts(_ context.Context) ([]StudentCounts, error) {
	return f.studentCounts, nil
}

func (f *fakeStore) Entries(_ context.Context, start, end string, dept roster.Department) ([]Entry, error) {
	f.gotStart, f.gotEnd, f.gotDept = start, end, dept
	return f.entries, nil
}

func (f *fakeStore) Recent(_ context.Context, limit int) ([]Entry, error) {
	f.gotLimit = limit
	return f.entries, nil
}

func (f *fakeStore) DashboardCounts(_ context.Context, _ string) (int, int, int, int, error) {
	return f.dashStudents, f.dashTotal, f.dashPresent, f.dashLate, nil
}

// TestSummaryPartition ensures the status counts always partition the total.
func TestSummaryPartition(t *testing.T) {
	store := &fakeStore{present: 7, late: 2, absent: 3}
	agg := NewAggregator(store)

	s, err := agg.Summary(context.Background(), "2024-03-01", "2024-03-31", roster.ComputerScience)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if s.Total != 12 {
		t.Fatalf("total = %d, want 12", s.Total)
	}
	if s.Present+s.Late+s.Absent != s.Total {
		t.Fatalf("counts do not partition total: %+v", s)
	}
	if store.gotStart != "2024-03-01" || store.gotEnd != "2024-03-31" || store.gotDept != roster.ComputerScience {
		t.Fatalf("filters not passed through: %q %q %q", store.gotStart, store.gotEnd, store.gotDept)
	}
}

// TestStudentStats ensures per-student totals and rates, including the
// zero-record convention.
func TestStudentStats(t *testing.T) {
	store := &fakeStore{studentCounts: []StudentCounts{
		{Student: roster.Student{ID: 1, Name: "Ada"}, Present: 3, Late: 1, Absent: 1},
		{Student: roster.Student{ID: 2, Name: "Grace"}},
	}}
	agg := NewAggregator(store)

	stats, err := agg.StudentStats(context.Background())
	if err != nil {
		t.Fatalf("StudentStats returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 stats rows, got %d", len(stats))
	}

	if stats[0].Total != 5 {
		t.Fatalf("Ada total = %d, want 5", stats[0].Total)
	}
	if stats[0].Rate != 80.0 {
		t.Fatalf("Ada rate = %v, want 80.0", stats[0].Rate)
	}

	if stats[1].Total != 0 {
		t.Fatalf("Grace total = %d, want 0", stats[1].Total)
	}
	if stats[1].Rate != 0 {
		t.Fatalf("Grace rate = %v, want 0", stats[1].Rate)
	}
}

// TestRate covers rounding and the zero-denominator convention.
func TestRate(t *testing.T) {
	tcs := []struct {
		attended, total int
		want            float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{4, 5, 80},
		{5, 5, 100},
	}
	for _, tc := range tcs {
		if got := Rate(tc.attended, tc.total); got != tc.want {
			t.Fatalf("Rate(%d, %d) = %v, want %v", tc.attended, tc.total, got, tc.want)
		}
	}
}

// TestDashboard ensures the day's rate is measured against the roster size.
func TestDashboard(t *testing.T) {
	store := &fakeStore{dashStudents: 4, dashTotal: 3, dashPresent: 2, dashLate: 1}
	agg := NewAggregator(store)

	d, err := agg.Dashboard(context.Background(), "2024-03-01")
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if d.TotalStudents != 4 || d.TodayTotal != 3 || d.TodayPresent != 2 || d.TodayLate != 1 {
		t.Fatalf("unexpected dashboard counts: %+v", d)
	}
	if d.TodayRate != 75.0 {
		t.Fatalf("today rate = %v, want 75.0", d.TodayRate)
	}
}

// TestRecentDefaultLimit ensures non-positive limits fall back to 10.
func TestRecentDefaultLimit(t *testing.T) {
	store := &fakeStore{}
	agg := NewAggregator(store)

	if _, err := agg.Recent(context.Background(), 0); err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if store.gotLimit != 10 {
		t.Fatalf("limit = %d, want 10", store.gotLimit)
	}

	if _, err := agg.Recent(context.Background(), 25); err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if store.gotLimit != 25 {
		t.Fatalf("limit = %d, want 25", store.gotLimit)
	}
}
