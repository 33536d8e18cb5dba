package storage

import (
	"context"
	"fmt"
)

// Scope hands out at most one Session per request.
// The zero value is not usable; create one with NewScope and always
// defer Close.
type Scope struct {
	storage Storage
	session Session
	closed  bool
}

// NewScope returns a Scope over st. Nothing is opened until the first
// call to Session.
func NewScope(st Storage) *Scope {
	return &Scope{storage: st}
}

// Session opens the request's handle on first use and returns the same
// handle on every later call.
func (s *Scope) Session(ctx context.Context) (Session, error) {
	if s.closed {
		return nil, fmt.Errorf("storage.Scope: session requested after close")
	}
	if s.session != nil {
		return s.session, nil
	}

	sess, err := s.storage.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.Scope: open: %w", err)
	}
	s.session = sess

	return sess, nil
}

// Close releases the handle if one was opened. It is safe to call more
// than once.
func (s *Scope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.session == nil {
		return nil
	}
	sess := s.session
	s.session = nil

	return sess.Close()
}
