// Package middleware provides the HTTP middleware stack: request logging,
// CORS, and path normalization.
package middleware

import "net/http"

// System composes middleware into a single wrapping function.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Wrap(handler http.Handler) http.Handler
}

type system struct {
	stack []func(http.Handler) http.Handler
}

// New creates an empty middleware system.
func New() System {
	return &system{}
}

// Use appends middleware to the stack. Middleware runs in registration
// order: the first registered wraps outermost.
func (s *system) Use(mw func(http.Handler) http.Handler) {
	s.stack = append(s.stack, mw)
}

// Wrap applies the registered middleware around the handler.
func (s *system) Wrap(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(s.stack) - 1; i >= 0; i-- {
		wrapped = s.stack[i](wrapped)
	}
	return wrapped
}
