package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "students.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return store
}

func openTestSession(t *testing.T, store *SQLite) storage.Session {
	t.Helper()

	sess, err := store.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := sess.Close(); err != nil {
			t.Fatalf("session close: %v", err)
		}
	})
	return sess
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	first, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	sess, err := first.Open(ctx)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := sess.CreateStudent(ctx, types.StudentFields{FullName: "Ann Lee", GroupName: "G1", Age: 20}); err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
	_ = sess.Close()
	_ = first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if err := second.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema() error = %v", err)
	}

	sess2, err := second.Open(ctx)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer sess2.Close()
	students, err := sess2.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("len(students) = %d, want 1 after reopening", len(students))
	}
}

func TestSessionCRUD(t *testing.T) {
	store := openTestStore(t)
	sess := openTestSession(t, store)
	ctx := context.Background()

	students, err := sess.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if students == nil || len(students) != 0 {
		t.Fatalf("ListStudents() = %#v, want empty non-nil slice", students)
	}

	id1, err := sess.CreateStudent(ctx, types.StudentFields{FullName: "Ann Lee", GroupName: "G1", Age: 20})
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
	id2, err := sess.CreateStudent(ctx, types.StudentFields{FullName: "Bo", GroupName: "G2", Age: -3})
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", id1, id2)
	}

	got, outcome, err := sess.GetStudentByID(ctx, id2)
	if err != nil {
		t.Fatalf("GetStudentByID() error = %v", err)
	}
	want := types.Student{ID: id2, FullName: "Bo", GroupName: "G2", Age: -3}
	if outcome != storage.OutcomeOK || got != want {
		t.Fatalf("GetStudentByID() = %+v, %v, want %+v, ok", got, outcome, want)
	}

	outcome, err = sess.UpdateStudentByID(ctx, id1, types.StudentFields{FullName: "Ann K. Lee", GroupName: "G1", Age: 21})
	if err != nil || outcome != storage.OutcomeOK {
		t.Fatalf("UpdateStudentByID() = %v, %v", outcome, err)
	}

	students, err = sess.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	wantList := []types.Student{
		{ID: 1, FullName: "Ann K. Lee", GroupName: "G1", Age: 21},
		{ID: 2, FullName: "Bo", GroupName: "G2", Age: -3},
	}
	if len(students) != len(wantList) {
		t.Fatalf("len(students) = %d, want %d", len(students), len(wantList))
	}
	for i := range wantList {
		if students[i] != wantList[i] {
			t.Fatalf("students[%d] = %+v, want %+v", i, students[i], wantList[i])
		}
	}

	outcome, err = sess.DeleteStudentByID(ctx, id1)
	if err != nil || outcome != storage.OutcomeOK {
		t.Fatalf("DeleteStudentByID() = %v, %v", outcome, err)
	}
	outcome, err = sess.DeleteStudentByID(ctx, id1)
	if err != nil || outcome != storage.OutcomeNotFound {
		t.Fatalf("second DeleteStudentByID() = %v, %v, want not_found", outcome, err)
	}
}

func TestSessionMissingRows(t *testing.T) {
	store := openTestStore(t)
	sess := openTestSession(t, store)
	ctx := context.Background()

	_, outcome, err := sess.GetStudentByID(ctx, 999)
	if err != nil || outcome != storage.OutcomeNotFound {
		t.Fatalf("GetStudentByID() = %v, %v, want not_found", outcome, err)
	}

	outcome, err = sess.UpdateStudentByID(ctx, 999, types.StudentFields{FullName: "X", GroupName: "Y", Age: 1})
	if err != nil || outcome != storage.OutcomeNotFound {
		t.Fatalf("UpdateStudentByID() = %v, %v, want not_found", outcome, err)
	}

	students, err := sess.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(students) != 0 {
		t.Fatalf("len(students) = %d, want 0", len(students))
	}
}
