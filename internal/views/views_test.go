package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/aanand-mishra/students-web/internal/http/flash"
	"github.com/aanand-mishra/students-web/internal/types"
)

func renderDoc(t *testing.T, notices []flash.Notice, data StudentFormData) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	if err := Layout(data.Title(), notices, StudentForm(data)).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestStudentsListEscapesValues(t *testing.T) {
	var buf bytes.Buffer
	students := []types.Student{{ID: 7, FullName: `<script>alert("x")</script>`, GroupName: "G&1", Age: 20}}
	if err := StudentsList(students).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatalf("rendered list contains unescaped markup: %s", buf.String())
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if got := doc.Find("td.full-name").Text(); got != `<script>alert("x")</script>` {
		t.Fatalf("full-name cell = %q", got)
	}
	if got, _ := doc.Find("td.actions form").Attr("action"); got != "/students/7/delete" {
		t.Fatalf("delete action = %q", got)
	}
	if got, _ := doc.Find("td.actions a").Attr("href"); got != "/students/7/edit" {
		t.Fatalf("edit href = %q", got)
	}
}

func TestStudentsListEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := StudentsList(nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `class="empty"`) {
		t.Fatalf("expected empty message, got %s", buf.String())
	}
}

func TestStudentFormModes(t *testing.T) {
	doc := renderDoc(t, []flash.Notice{flash.Danger("Please fill in all fields.")}, StudentFormData{
		Mode:   ModeAdd,
		Values: types.StudentForm{FullName: "Bo", Age: "abc"},
	})
	if got, _ := doc.Find("form.student-form").Attr("action"); got != "/students/add" {
		t.Fatalf("add action = %q", got)
	}
	if got, _ := doc.Find(`input[name="full_name"]`).Attr("value"); got != "Bo" {
		t.Fatalf("full_name value = %q", got)
	}
	if got := doc.Find(`.alert[data-kind="danger"]`).Text(); got != "Please fill in all fields." {
		t.Fatalf("danger notice = %q", got)
	}
	if got := doc.Find("title").Text(); got != "Add student | "+AppName {
		t.Fatalf("title = %q", got)
	}

	doc = renderDoc(t, nil, StudentFormData{
		Mode:   ModeEdit,
		ID:     3,
		Values: types.FormFromStudent(types.Student{ID: 3, FullName: "Ann", GroupName: "G1", Age: 20}),
	})
	if got, _ := doc.Find("form.student-form").Attr("action"); got != "/students/3/edit" {
		t.Fatalf("edit action = %q", got)
	}
	if got, _ := doc.Find(`input[name="age"]`).Attr("value"); got != "20" {
		t.Fatalf("age value = %q", got)
	}
	if doc.Find(".notices").Length() != 0 {
		t.Fatalf("expected no notices block")
	}
}

func TestStudentFormEscapesAttributeValues(t *testing.T) {
	value := `Ann" onfocus="alert(1)`
	doc := renderDoc(t, []flash.Notice{flash.Warning("<b>gone</b>")}, StudentFormData{
		Mode:   ModeAdd,
		Values: types.StudentForm{FullName: value, GroupName: "G1", Age: "20"},
	})

	input := doc.Find(`input[name="full_name"]`)
	if got, _ := input.Attr("value"); got != value {
		t.Fatalf("full_name value = %q, want %q", got, value)
	}
	if _, ok := input.Attr("onfocus"); ok {
		t.Fatalf("attribute value escaped into a new attribute")
	}
	alert := doc.Find(`.alert[data-kind="warning"]`)
	if alert.Find("b").Length() != 0 || alert.Text() != "<b>gone</b>" {
		t.Fatalf("notice not escaped: %q", alert.Text())
	}
}
