// Package views renders the HTML pages. Components are written in the
// .templ files of this package; run `templ generate` after editing them.
package views

import (
	"strconv"

	"github.com/aanand-mishra/students-web/internal/types"
)

// AppName is shown in the page header and every title.
const AppName = "Students"

// FormMode selects between the add and edit variants of the student form.
type FormMode string

const (
	ModeAdd  FormMode = "add"
	ModeEdit FormMode = "edit"
)

// StudentFormData is everything the student form needs.
type StudentFormData struct {
	Mode FormMode
	// ID is set in edit mode.
	ID     int64
	Values types.StudentForm
}

// Action is the URL the form posts to.
func (d StudentFormData) Action() string {
	if d.Mode == ModeEdit {
		return EditPath(d.ID)
	}
	return "/students/add"
}

// Title is the page heading for the form.
func (d StudentFormData) Title() string {
	if d.Mode == ModeEdit {
		return "Edit student"
	}
	return "Add student"
}

// EditPath is the edit form URL for a student.
func EditPath(id int64) string {
	return "/students/" + strconv.FormatInt(id, 10) + "/edit"
}

// DeletePath is the delete endpoint for a student.
func DeletePath(id int64) string {
	return "/students/" + strconv.FormatInt(id, 10) + "/delete"
}

func pageTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
