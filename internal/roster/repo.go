package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qrattend/internal/store"
)

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a student row and fills in the generated id and timestamp.
// Unique violations map to the matching domain error so the service can
// distinguish a user-facing conflict from a token collision.
func (r *Repository) Insert(ctx context.Context, st Student) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (name, reg_no, department, parent_phone, barcode)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, st.Name, st.RegNo, st.Department, st.ParentPhone, st.Barcode)
	if err := row.Scan(&st.ID, &st.CreatedAt); err != nil {
		switch store.UniqueViolation(err) {
		case "students_reg_no_key":
			return Student{}, ErrDuplicateRegNo
		case "students_barcode_key":
			return Student{}, ErrDuplicateBarcode
		}
		return Student{}, fmt.Errorf("insert student: %w", err)
	}
	return st, nil
}

// ByBarcode returns the student owning a scan token, nil when none matches.
func (r *Repository) ByBarcode(ctx context.Context, barcode string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, reg_no, department, parent_phone, barcode, created_at
		FROM students WHERE barcode = $1
	`, barcode)
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.RegNo, &st.Department, &st.ParentPhone, &st.Barcode, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	return &st, nil
}

// List returns all students ordered by name.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, reg_no, department, parent_phone, barcode, created_at
		FROM students
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.RegNo, &st.Department, &st.ParentPhone, &st.Barcode, &st.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}
