package response

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/aanand-mishra/students-web/internal/http/flash"
)

func TestRenderFailingComponentIsServerError(t *testing.T) {
	broken := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<p>partial")
		return errors.New("database is locked")
	})

	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	rr := httptest.NewRecorder()
	Render(rr, req, http.StatusOK, broken)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if body := rr.Body.String(); strings.Contains(body, "partial") || strings.Contains(body, "locked") {
		t.Fatalf("body leaks internals: %q", body)
	}
}

func TestPageShowsPendingAndCurrentNotices(t *testing.T) {
	store := flash.Store{}

	seed := httptest.NewRecorder()
	store.Write(seed, flash.Info("Student deleted."))
	cookie, err := http.ParseSetCookie(seed.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()

	Page(rr, req, store, http.StatusOK, "Students", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>body</p>")
		return err
	}), flash.Danger("Age must be a whole number."))

	body := rr.Body.String()
	deleted := strings.Index(body, "Student deleted.")
	age := strings.Index(body, "Age must be a whole number.")
	if deleted < 0 || age < 0 || deleted > age {
		t.Fatalf("notices missing or out of order: %s", body)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("Content-Type = %q", got)
	}
	if rr.Header().Get("Set-Cookie") == "" {
		t.Fatalf("expected pending notice to be cleared")
	}
}

func TestRedirectWithNotice(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/students/add", nil)
	rr := httptest.NewRecorder()

	RedirectWithNotice(rr, req, flash.Store{}, "/students", flash.Success("Student added."))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/students" {
		t.Fatalf("Location = %q", got)
	}
	if !strings.HasPrefix(rr.Header().Get("Set-Cookie"), flash.CookieName+"=") {
		t.Fatalf("Set-Cookie = %q", rr.Header().Get("Set-Cookie"))
	}
}
