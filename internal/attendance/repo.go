package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a record unless one already exists for (student, date). The
// unique index turns a concurrent duplicate into a no-op here rather than a
// second row; inserted reports which way it went.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (student_id, date, time, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, date) DO NOTHING
		RETURNING id, created_at
	`, rec.StudentID, rec.Date, rec.Time, rec.Status)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("insert attendance: %w", err)
	}
	return rec, true, nil
}

// ByStudentDate returns the student's record for a date, nil when none exists.
func (r *Repository) ByStudentDate(ctx context.Context, studentID int64, date string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, date, time, status, created_at
		FROM attendance
		WHERE student_id = $1 AND date = $2
	`, studentID, date)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.StudentID, &rec.Date, &rec.Time, &rec.Status, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup attendance: %w", err)
	}
	return &rec, nil
}
