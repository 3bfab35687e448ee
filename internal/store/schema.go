package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements are idempotent so Setup can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		reg_no TEXT NOT NULL,
		department TEXT NOT NULL,
		parent_phone TEXT NOT NULL,
		barcode TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT students_reg_no_key UNIQUE (reg_no),
		CONSTRAINT students_barcode_key UNIQUE (barcode)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL REFERENCES students (id),
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// One record per student per calendar date. The recorder relies on this
	// index to make its check-and-insert atomic.
	`CREATE UNIQUE INDEX IF NOT EXISTS attendance_student_id_date_key
		ON attendance (student_id, date)`,
}

// Setup creates the attendance schema if it does not exist.
func Setup(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema setup: %w", err)
		}
	}
	return nil
}
