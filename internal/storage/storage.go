// Package storage defines the contracts any database backend must satisfy
// to work with this application.
//
// A Storage is process-wide and owns the schema. Each request works through
// its own Session, which is acquired lazily through a Scope and released when
// the request ends, whatever the outcome.
package storage

import (
	"context"

	"github.com/aanand-mishra/students-web/internal/types"
)

// Outcome reports whether an operation addressed by id found its row.
// A missing row is a normal result, not an error.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Storage is the process-wide database contract.
type Storage interface {
	// Open acquires a request-scoped Session. The caller must Close it.
	Open(ctx context.Context) (Session, error)

	// EnsureSchema creates the students table if it does not exist.
	// It is safe to call on every startup.
	EnsureSchema(ctx context.Context) error

	// Close releases the underlying database.
	Close() error
}

// Session is a request-scoped handle. Every write is a single statement
// committed on its own.
type Session interface {
	// ListStudents returns every student ordered by ascending id.
	// Returns an empty slice (not nil) if there are no students.
	ListStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentByID fetches a single student by primary key.
	GetStudentByID(ctx context.Context, id int64) (types.Student, Outcome, error)

	// CreateStudent inserts a new student and returns the store-assigned id.
	CreateStudent(ctx context.Context, fields types.StudentFields) (int64, error)

	// UpdateStudentByID overwrites the three mutable fields of a student.
	UpdateStudentByID(ctx context.Context, id int64, fields types.StudentFields) (Outcome, error)

	// DeleteStudentByID removes a student. Deleting a missing id is not an error.
	DeleteStudentByID(ctx context.Context, id int64) (Outcome, error)

	// Close releases the handle.
	Close() error
}
