// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and the record service can all import types without
// depending on each other.
package types

import (
	"net/http"
	"strconv"
	"strings"
)

// Student represents a persisted student record.
// ID is assigned by the store on creation and never changes afterwards.
type Student struct {
	ID        int64
	FullName  string
	GroupName string
	Age       int64
}

// StudentForm is the raw, untrusted input of the add and edit forms.
// Values are trimmed on parse; the validate tags are checked by the
// record service before anything reaches storage.
type StudentForm struct {
	FullName  string `form:"full_name"  validate:"required"`
	GroupName string `form:"group_name" validate:"required"`
	Age       string `form:"age"        validate:"required"`
}

// StudentFields is a validated, normalised StudentForm.
type StudentFields struct {
	FullName  string
	GroupName string
	Age       int64
}

// Form field names shared by the parser and the views.
const (
	FieldFullName  = "full_name"
	FieldGroupName = "group_name"
	FieldAge       = "age"
)

// ParseStudentForm extracts the student form fields from r.
// Missing fields default to the empty string.
func ParseStudentForm(r *http.Request) (StudentForm, error) {
	if err := r.ParseForm(); err != nil {
		return StudentForm{}, err
	}

	return StudentForm{
		FullName:  strings.TrimSpace(r.PostForm.Get(FieldFullName)),
		GroupName: strings.TrimSpace(r.PostForm.Get(FieldGroupName)),
		Age:       strings.TrimSpace(r.PostForm.Get(FieldAge)),
	}, nil
}

// FormFromStudent fills a form with the values of an existing record.
func FormFromStudent(s Student) StudentForm {
	return StudentForm{
		FullName:  s.FullName,
		GroupName: s.GroupName,
		Age:       strconv.FormatInt(s.Age, 10),
	}
}
