package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store is the persistence surface the roster service needs.
type Store interface {
	Insert(ctx context.Context, st Student) (Student, error)
	ByBarcode(ctx context.Context, barcode string) (*Student, error)
	List(ctx context.Context) ([]Student, error)
}

// barcodeAttempts bounds token regeneration on the off chance a fresh token
// collides with an existing row.
const barcodeAttempts = 5

// Service registers and looks up students.
type Service struct {
	store Store
}

// NewService creates a roster service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register validates the fields, assigns a scan token, and persists the
// student. Token collisions are retried internally and never surfaced; a
// duplicate registration number is returned as ErrDuplicateRegNo.
func (s *Service) Register(ctx context.Context, name, regNo, department, parentPhone string) (Student, error) {
	name = strings.TrimSpace(name)
	regNo = strings.TrimSpace(regNo)
	parentPhone = strings.TrimSpace(parentPhone)

	if name == "" {
		return Student{}, &ValidationError{Field: "name", Reason: "required"}
	}
	if regNo == "" {
		return Student{}, &ValidationError{Field: "reg_no", Reason: "required"}
	}
	if parentPhone == "" {
		return Student{}, &ValidationError{Field: "parent_phone", Reason: "required"}
	}
	dept, err := ParseDepartment(department)
	if err != nil {
		return Student{}, err
	}

	for attempt := 0; attempt < barcodeAttempts; attempt++ {
		st := Student{
			Name:        name,
			RegNo:       regNo,
			Department:  dept,
			ParentPhone: parentPhone,
			Barcode:     NewBarcode(),
		}
		created, err := s.store.Insert(ctx, st)
		if errors.Is(err, ErrDuplicateBarcode) {
			continue
		}
		if err != nil {
			return Student{}, err
		}
		return created, nil
	}
	return Student{}, fmt.Errorf("register %s: barcode generation exhausted after %d attempts", regNo, barcodeAttempts)
}

// ByBarcode resolves a scan token to a student, nil when unknown.
func (s *Service) ByBarcode(ctx context.Context, barcode string) (*Student, error) {
	return s.store.ByBarcode(ctx, strings.TrimSpace(barcode))
}

// List returns the roster sorted by name.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.store.List(ctx)
}
