// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The database lives in a single file on disk. A *sql.DB pool is shared by
// the process; every request gets its own dedicated *sql.Conn through Open,
// and gives it back with Session.Close.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name  TEXT    NOT NULL,
		group_name TEXT    NOT NULL,
		age        INTEGER NOT NULL
	)
`

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database file at path and checks that it is
// reachable. The schema is not touched; call EnsureSchema for that.
func New(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite.New: storage path is required")
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: ping db: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// EnsureSchema creates the students table if it does not already exist.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	if _, err := s.Db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("EnsureSchema: create table: %w", err)
	}
	return nil
}

// Open reserves one connection from the pool for the calling request.
func (s *SQLite) Open(ctx context.Context) (storage.Session, error) {
	conn, err := s.Db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("Open: acquire conn: %w", err)
	}
	return &Session{conn: conn}, nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// Session is a request-scoped handle bound to a single connection.
type Session struct {
	conn *sql.Conn
}

var _ storage.Session = (*Session)(nil)

// Close returns the connection to the pool.
func (s *Session) Close() error {
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("Session.Close: %w", err)
	}
	return nil
}

// CreateStudent inserts a new row and returns its generated id.
// Placeholders keep user input out of the SQL text.
func (s *Session) CreateStudent(ctx context.Context, fields types.StudentFields) (int64, error) {
	stmt, err := s.conn.PrepareContext(ctx,
		"INSERT INTO students (full_name, group_name, age) VALUES (?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, fields.FullName, fields.GroupName, fields.Age)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *Session) GetStudentByID(ctx context.Context, id int64) (types.Student, storage.Outcome, error) {
	stmt, err := s.conn.PrepareContext(ctx,
		"SELECT id, full_name, group_name, age FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, storage.OutcomeNotFound, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student

	err = stmt.QueryRowContext(ctx, id).Scan(
		&student.ID,
		&student.FullName,
		&student.GroupName,
		&student.Age,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, storage.OutcomeNotFound, nil
	}
	if err != nil {
		return types.Student{}, storage.OutcomeNotFound, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, storage.OutcomeOK, nil
}

// ListStudents returns all student rows in creation order.
func (s *Session) ListStudents(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.conn.PrepareContext(ctx,
		"SELECT id, full_name, group_name, age FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.FullName,
			&student.GroupName,
			&student.Age,
		); err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces a student's three mutable fields.
func (s *Session) UpdateStudentByID(ctx context.Context, id int64, fields types.StudentFields) (storage.Outcome, error) {
	stmt, err := s.conn.PrepareContext(ctx,
		"UPDATE students SET full_name = ?, group_name = ?, age = ? WHERE id = ?",
	)
	if err != nil {
		return storage.OutcomeNotFound, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, fields.FullName, fields.GroupName, fields.Age, id)
	if err != nil {
		return storage.OutcomeNotFound, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	return outcomeOf(result, "UpdateStudentByID")
}

// DeleteStudentByID removes a student row by primary key.
func (s *Session) DeleteStudentByID(ctx context.Context, id int64) (storage.Outcome, error) {
	stmt, err := s.conn.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return storage.OutcomeNotFound, fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return storage.OutcomeNotFound, fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	return outcomeOf(result, "DeleteStudentByID")
}

func outcomeOf(result sql.Result, op string) (storage.Outcome, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return storage.OutcomeNotFound, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return storage.OutcomeNotFound, nil
	}
	return storage.OutcomeOK, nil
}
