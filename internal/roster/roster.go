// Package roster manages student records and scan token assignment.
package roster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Department is a fixed categorical attribute of a student.
type Department string

const (
	ComputerScience Department = "Computer Science and Engineering"
	Electronics     Department = "Electronics and Communication Engineering"
	Mechanical      Department = "Mechanical Engineering"
	Civil           Department = "Civil Engineering"
	Electrical      Department = "Electrical and Electronics Engineering"
	InformationTech Department = "Information Technology"
)

// Departments lists every recognized department.
func Departments() []Department {
	return []Department{
		ComputerScience,
		Electronics,
		Mechanical,
		Civil,
		Electrical,
		InformationTech,
	}
}

// ParseDepartment validates a raw department string against the closed set.
func ParseDepartment(s string) (Department, error) {
	for _, d := range Departments() {
		if Department(s) == d {
			return d, nil
		}
	}
	return "", &ValidationError{Field: "department", Reason: "unrecognized department"}
}

// Student is an identity record. Rows are created once and never updated.
type Student struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	RegNo       string     `json:"reg_no"`
	Department  Department `json:"department"`
	ParentPhone string     `json:"parent_phone"`
	Barcode     string     `json:"barcode"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ValidationError reports a rejected registration field. Nothing is persisted
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var (
	// ErrDuplicateRegNo is a user-facing conflict on the business key.
	ErrDuplicateRegNo = errors.New("registration number already exists")
	// ErrDuplicateBarcode is an internal collision; registration retries it.
	ErrDuplicateBarcode = errors.New("barcode already exists")
)

// NewBarcode returns a fresh scan token: the first eight hex digits of a
// random UUID, uppercased. It carries no information from any registration
// field; the store's UNIQUE constraint is the real uniqueness guarantee.
func NewBarcode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
