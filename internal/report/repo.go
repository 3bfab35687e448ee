package report

import (
	"context"
	"database/sql"
	"fmt"

	"qrattend/internal/roster"
)

// Repository runs the report queries against Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// StatusCounts tallies records in [start, end] by status.
func (r *Repository) StatusCounts(ctx context.Context, start, end string, dept roster.Department) (int, int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'late'),
			COUNT(*) FILTER (WHERE a.status = 'absent')
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.date BETWEEN $1 AND $2`
	args := []any{start, end}
	if dept != "" {
		query += " AND s.department = $3"
		args = append(args, dept)
	}
	var present, late, absent int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&present, &late, &absent); err != nil {
		return 0, 0, 0, fmt.Errorf("status counts: %w", err)
	}
	return present, late, absent, nil
}

// StudentCounts tallies every student's records, keeping students with no
// records via the left join, ordered by name.
func (r *Repository) StudentCounts(ctx context.Context) ([]StudentCounts, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.reg_no, s.department, s.parent_phone, s.barcode, s.created_at,
			COUNT(a.id) FILTER (WHERE a.status = 'present'),
			COUNT(a.id) FILTER (WHERE a.status = 'late'),
			COUNT(a.id) FILTER (WHERE a.status = 'absent')
		FROM students s
		LEFT JOIN attendance a ON a.student_id = s.id
		GROUP BY s.id
		ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("student counts: %w", err)
	}
	defer rows.Close()

	var counts []StudentCounts
	for rows.Next() {
		var c StudentCounts
		st := &c.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.RegNo, &st.Department, &st.ParentPhone, &st.Barcode, &st.CreatedAt,
			&c.Present, &c.Late, &c.Absent); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Entries returns joined rows for a range, newest first.
func (r *Repository) Entries(ctx context.Context, start, end string, dept roster.Department) ([]Entry, error) {
	query := `
		SELECT s.name, s.reg_no, s.department, a.date, a.time, a.status
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.date BETWEEN $1 AND $2`
	args := []any{start, end}
	if dept != "" {
		query += " AND s.department = $3"
		args = append(args, dept)
	}
	query += " ORDER BY a.date DESC, a.time DESC"
	return r.queryEntries(ctx, query, args...)
}

// Recent returns the latest check-ins in write order.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return r.queryEntries(ctx, `
		SELECT s.name, s.reg_no, s.department, a.date, a.time, a.status
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		ORDER BY a.created_at DESC
		LIMIT $1
	`, limit)
}

// DashboardCounts returns the roster size and the day's record tallies.
func (r *Repository) DashboardCounts(ctx context.Context, today string) (int, int, int, int, error) {
	var students, total, present, late int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM students),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'late')
		FROM attendance
		WHERE date = $1
	`, today).Scan(&students, &total, &present, &late)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("dashboard counts: %w", err)
	}
	return students, total, present, late, nil
}

func (r *Repository) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.RegNo, &e.Department, &e.Date, &e.Time, &e.Status); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
