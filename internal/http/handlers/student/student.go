// Package student contains all HTTP handlers for the student pages.
//
// Handlers are built by factory functions that capture their dependencies
// and return an http.HandlerFunc:
//
//	router.HandleFunc("GET /students", student.List(deps))
//
// Each request opens its own storage.Scope and closes it on every exit
// path. Writes end in a 303 redirect carrying a flash notice, or in a
// re-rendered form when validation fails.
package student

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/students-web/internal/http/flash"
	studentsvc "github.com/aanand-mishra/students-web/internal/service/student"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
	"github.com/aanand-mishra/students-web/internal/utils/response"
	"github.com/aanand-mishra/students-web/internal/views"
)

// ListPath is where every write redirects to.
const ListPath = "/students"

const (
	msgAdded    = "Student added."
	msgUpdated  = "Student updated."
	msgDeleted  = "Student deleted."
	msgNotFound = "Student not found."
)

// Deps are the dependencies shared by all handlers.
type Deps struct {
	Service *studentsvc.Service
	Storage storage.Storage
	Notices flash.Store
}

// Register wires every student route into mux.
func Register(mux *http.ServeMux, d Deps) {
	mux.HandleFunc("GET /{$}", Root())
	mux.HandleFunc("GET /students", List(d))
	mux.HandleFunc("GET /students/add", AddForm(d))
	mux.HandleFunc("POST /students/add", Add(d))
	mux.HandleFunc("GET /students/{id}/edit", EditForm(d))
	mux.HandleFunc("POST /students/{id}/edit", Edit(d))
	mux.HandleFunc("POST /students/{id}/delete", Delete(d))
}

// Root handles GET / by redirecting to the list.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ListPath, http.StatusFound)
	}
}

// List handles GET /students.
func List(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing students")

		scope := storage.NewScope(d.Storage)
		defer closeScope(scope)

		sess, err := scope.Session(r.Context())
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		students, err := d.Service.List(r.Context(), sess)
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		response.Page(w, r, d.Notices, http.StatusOK, "Students", views.StudentsList(students))
	}
}

// AddForm handles GET /students/add.
func AddForm(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.StudentFormData{Mode: views.ModeAdd}
		response.Page(w, r, d.Notices, http.StatusOK, data.Title(), views.StudentForm(data))
	}
}

// Add handles POST /students/add.
//
// On a validation failure the form is re-rendered with the submitted
// values so the user can correct them.
func Add(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		form, err := types.ParseStudentForm(r)
		if err != nil {
			http.Error(w, "malformed form body", http.StatusBadRequest)
			return
		}

		scope := storage.NewScope(d.Storage)
		defer closeScope(scope)

		sess, err := scope.Session(r.Context())
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		id, err := d.Service.Add(r.Context(), sess, form)
		if ve, ok := studentsvc.IsValidation(err); ok {
			slog.Info("student rejected", slog.String("kind", ve.Kind.String()))
			data := views.StudentFormData{Mode: views.ModeAdd, Values: form}
			response.Page(w, r, d.Notices, http.StatusOK, data.Title(), views.StudentForm(data), flash.Danger(ve.Error()))
			return
		}
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		slog.Info("student created", slog.Int64("id", id))
		response.RedirectWithNotice(w, r, d.Notices, ListPath, flash.Success(msgAdded))
	}
}

// EditForm handles GET /students/{id}/edit.
func EditForm(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		scope := storage.NewScope(d.Storage)
		defer closeScope(scope)

		sess, err := scope.Session(r.Context())
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		student, outcome, err := d.Service.GetByID(r.Context(), sess, id)
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		if outcome == storage.OutcomeNotFound {
			response.RedirectWithNotice(w, r, d.Notices, ListPath, flash.Warning(msgNotFound))
			return
		}

		data := editData(student)
		response.Page(w, r, d.Notices, http.StatusOK, data.Title(), views.StudentForm(data))
	}
}

// Edit handles POST /students/{id}/edit.
//
// On a validation failure the form is re-rendered with the stored record.
func Edit(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		scope := storage.NewScope(d.Storage)
		defer closeScope(scope)

		sess, err := scope.Session(r.Context())
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		// A missing record wins over a malformed body.
		_, outcome, err := d.Service.GetByID(r.Context(), sess, id)
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		if outcome == storage.OutcomeNotFound {
			response.RedirectWithNotice(w, r, d.Notices, ListPath, flash.Warning(msgNotFound))
			return
		}

		form, err := types.ParseStudentForm(r)
		if err != nil {
			http.Error(w, "malformed form body", http.StatusBadRequest)
			return
		}

		result, err := d.Service.Update(r.Context(), sess, id, form)
		if ve, ok := studentsvc.IsValidation(err); ok {
			slog.Info("student update rejected",
				slog.Int64("id", id),
				slog.String("kind", ve.Kind.String()))
			data := editData(result.Student)
			response.Page(w, r, d.Notices, http.StatusOK, data.Title(), views.StudentForm(data), flash.Danger(ve.Error()))
			return
		}
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		if result.Outcome == storage.OutcomeNotFound {
			response.RedirectWithNotice(w, r, d.Notices, ListPath, flash.Warning(msgNotFound))
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.RedirectWithNotice(w, r, d.Notices, ListPath, flash.Success(msgUpdated))
	}
}

// Delete handles POST /students/{id}/delete. Deleting a missing student
// still redirects with the same notice.
func Delete(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		scope := storage.NewScope(d.Storage)
		defer closeScope(scope)

		sess, err := scope.Session(r.Context())
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		outcome, err := d.Service.Remove(r.Context(), sess, id)
		if err != nil {
			response.ServerError(w, r, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id), slog.String("outcome", outcome.String()))
		response.RedirectWithNotice(w, r, d.Notices, ListPath, flash.Info(msgDeleted))
	}
}

func editData(s types.Student) views.StudentFormData {
	return views.StudentFormData{
		Mode:   views.ModeEdit,
		ID:     s.ID,
		Values: types.FormFromStudent(s),
	}
}

// pathID reads the {id} segment. Only unsigned decimal ids match.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 63)
	if err != nil {
		return 0, false
	}
	return int64(id), true
}

func closeScope(scope *storage.Scope) {
	if err := scope.Close(); err != nil {
		slog.Error("failed to release storage session", slog.String("error", err.Error()))
	}
}
