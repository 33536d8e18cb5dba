// Package student is the record service: it validates form input and runs
// the four CRUD operations against a request's storage.Session.
//
// Every write follows Received → Validated → Committed, or stops at
// Rejected with a *ValidationError and no storage mutation.
package student

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
	"github.com/go-playground/validator/v10"
)

// ValidationKind classifies a rejected write.
type ValidationKind int

const (
	MissingField ValidationKind = iota + 1
	InvalidAge
)

func (k ValidationKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case InvalidAge:
		return "invalid_age"
	default:
		return "unknown"
	}
}

// ValidationError reports malformed form input. It is never persisted.
type ValidationError struct {
	Kind ValidationKind
	// Fields names the offending form fields.
	Fields []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return "Please fill in all fields."
	case InvalidAge:
		return "Age must be a whole number."
	default:
		return "Invalid input."
	}
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// UpdateResult is the outcome of Update. Student holds the record as it was
// before the update, which the edit form needs when re-rendering.
type UpdateResult struct {
	Outcome storage.Outcome
	Student types.Student
}

// Service implements the record operations.
type Service struct {
	validate *validator.Validate
}

// New returns a Service. Field errors are reported by form field name.
func New() *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return &Service{validate: v}
}

// Validate trims and checks form input. It has no side effects.
func (s *Service) Validate(form types.StudentForm) (types.StudentFields, error) {
	form = types.StudentForm{
		FullName:  strings.TrimSpace(form.FullName),
		GroupName: strings.TrimSpace(form.GroupName),
		Age:       strings.TrimSpace(form.Age),
	}

	if err := s.validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return types.StudentFields{}, fmt.Errorf("Validate: %w", err)
		}
		missing := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			missing = append(missing, fe.Field())
		}
		return types.StudentFields{}, &ValidationError{Kind: MissingField, Fields: missing}
	}

	age, err := strconv.ParseInt(form.Age, 10, 64)
	if err != nil {
		return types.StudentFields{}, &ValidationError{Kind: InvalidAge, Fields: []string{types.FieldAge}}
	}

	return types.StudentFields{
		FullName:  form.FullName,
		GroupName: form.GroupName,
		Age:       age,
	}, nil
}

// List returns all records ordered by ascending id.
func (s *Service) List(ctx context.Context, sess storage.Session) ([]types.Student, error) {
	return sess.ListStudents(ctx)
}

// Add validates form and inserts a new record, returning its id.
func (s *Service) Add(ctx context.Context, sess storage.Session, form types.StudentForm) (int64, error) {
	fields, err := s.Validate(form)
	if err != nil {
		return 0, err
	}
	return sess.CreateStudent(ctx, fields)
}

// GetByID fetches one record. A missing id yields storage.OutcomeNotFound.
func (s *Service) GetByID(ctx context.Context, sess storage.Session, id int64) (types.Student, storage.Outcome, error) {
	return sess.GetStudentByID(ctx, id)
}

// Update replaces the three mutable fields of record id. A missing record
// short-circuits before validation.
func (s *Service) Update(ctx context.Context, sess storage.Session, id int64, form types.StudentForm) (UpdateResult, error) {
	current, outcome, err := sess.GetStudentByID(ctx, id)
	if err != nil {
		return UpdateResult{}, err
	}
	if outcome == storage.OutcomeNotFound {
		return UpdateResult{Outcome: storage.OutcomeNotFound}, nil
	}

	result := UpdateResult{Outcome: storage.OutcomeOK, Student: current}

	fields, err := s.Validate(form)
	if err != nil {
		return result, err
	}

	outcome, err = sess.UpdateStudentByID(ctx, id, fields)
	if err != nil {
		return result, err
	}
	result.Outcome = outcome

	return result, nil
}

// Remove deletes record id. Removing a missing id is a no-op.
func (s *Service) Remove(ctx context.Context, sess storage.Session, id int64) (storage.Outcome, error) {
	return sess.DeleteStudentByID(ctx, id)
}
