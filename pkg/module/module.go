// Package module mounts self-contained HTTP modules under single-segment
// path prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/assay/pkg/middleware"
)

// Module serves requests under a prefix, presenting the inner handler
// with the prefix stripped.
type Module struct {
	prefix  string
	handler http.Handler
	stack   middleware.System
}

// New panics unless prefix is a single segment such as "/api".
func New(prefix string, handler http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:  prefix,
		handler: handler,
		stack:   middleware.New(),
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends mw to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

func (m *Module) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.stack.Apply(m.handler).ServeHTTP(w, strip(r, m.prefix))
}

func strip(r *http.Request, prefix string) *http.Request {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" {
		rest = "/"
	}

	u := *r.URL
	u.Path = rest
	u.RawPath = ""

	out := r.Clone(r.Context())
	out.URL = &u
	return out
}

func checkPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be a single segment: %s", prefix)
	}
	return nil
}

// Router dispatches on the first path segment to a mounted Module and
// falls back to a plain ServeMux.
type Router struct {
	modules map[string]*Module
	mux     *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		mux:     http.NewServeMux(),
	}
}

// Mount registers m under its prefix.
func (rt *Router) Mount(m *Module) {
	rt.modules[m.prefix] = m
}

// Handle registers a handler on the fallback mux.
func (rt *Router) Handle(pattern string, h http.HandlerFunc) {
	rt.mux.HandleFunc(pattern, h)
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		r.URL.Path = strings.TrimSuffix(p, "/")
	}

	if m, ok := rt.modules[firstSegment(r.URL.Path)]; ok {
		m.ServeHTTP(w, r)
		return
	}
	rt.mux.ServeHTTP(w, r)
}

func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	seg, _, _ := strings.Cut(rest, "/")
	return "/" + seg
}
