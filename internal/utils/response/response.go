// Package response provides helpers for writing consistent HTML responses.
//
// Every page goes through Page so that a pending flash notice is shown
// exactly once and then cleared, and every write request ends in either a
// redirect (RedirectWithNotice) or a re-rendered page.
package response

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/aanand-mishra/students-web/internal/http/flash"
	"github.com/aanand-mishra/students-web/internal/views"
)

// Page renders body inside the layout with the given status code.
// The pending notice from the previous redirect, if any, is consumed and
// shown first, followed by notices raised while handling this request.
func Page(w http.ResponseWriter, r *http.Request, notices flash.Store, status int, title string, body templ.Component, current ...flash.Notice) {
	shown := make([]flash.Notice, 0, len(current)+1)
	if pending, ok := notices.ReadAndClear(w, r); ok {
		shown = append(shown, pending)
	}
	shown = append(shown, current...)

	Render(w, r, status, views.Layout(title, shown, body))
}

// Render writes component as an HTML response with the given status code.
// Rendering happens into a buffer first so a failing component never
// leaves a half-written page behind a 200 status line.
func Render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		ServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RedirectWithNotice stores notice for the next page and redirects to path.
// 303 See Other makes the browser follow up with a GET after a POST.
func RedirectWithNotice(w http.ResponseWriter, r *http.Request, notices flash.Store, path string, notice flash.Notice) {
	notices.Write(w, notice)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// ServerError logs err and writes an opaque 500 page. Internal details are
// never sent to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
