// Package flash provides one-time notices persisted across redirects.
package flash

import (
	"encoding/base64"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// CookieName is the cookie used for one-time notices.
const CookieName = "students_flash"

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindDanger  Kind = "danger"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Notice is one human-readable message.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Success returns a notice for a completed write.
func Success(msg string) Notice { return Notice{Kind: KindSuccess, Message: msg} }

// Danger returns a notice for rejected input.
func Danger(msg string) Notice { return Notice{Kind: KindDanger, Message: msg} }

// Warning returns a notice for a request that referenced a missing record.
func Warning(msg string) Notice { return Notice{Kind: KindWarning, Message: msg} }

// Info returns a neutral notice, such as the one shown after a delete.
func Info(msg string) Notice { return Notice{Kind: KindInfo, Message: msg} }

// Store reads and writes the notice cookie.
type Store struct {
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Write stores notice for the next page render.
func (s Store) Write(w http.ResponseWriter, notice Notice) {
	normalized, ok := normalizeNotice(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	http.SetCookie(w, s.cookie(base64.RawURLEncoding.EncodeToString(payload), 0))
}

// ReadAndClear returns the pending notice, if any, and expires the cookie.
// A malformed cookie is cleared and reported as absent.
func (s Store) ReadAndClear(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	s.Clear(w)
	return decodeNotice(cookie.Value)
}

// Clear expires any notice cookie.
func (s Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func decodeNotice(raw string) (Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalizeNotice(notice)
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Message = strings.TrimSpace(notice.Message)
	if notice.Message == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindDanger, KindWarning, KindInfo:
		return notice, true
	default:
		return Notice{}, false
	}
}
