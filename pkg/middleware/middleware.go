// Package middleware provides the HTTP middleware stack: CORS, request
// logging, and OIDC bearer authentication.
package middleware

import "net/http"

// System is an ordered middleware stack. The first middleware added is
// the outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

func New() System {
	return &stack{}
}

func (s *stack) Use(mw func(http.Handler) http.Handler) {
	*s = append(*s, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}
