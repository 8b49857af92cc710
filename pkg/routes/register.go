package routes

import (
	"net/http"

	"github.com/JaimeStill/assay/pkg/openapi"
)

// Register adds every route in groups to mux and returns the registered
// patterns in order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	Walk(func(path string, r Route) {
		pattern := r.Method + " " + path
		mux.HandleFunc(pattern, r.Handler)
		patterns = append(patterns, pattern)
	}, groups...)
	return patterns
}

// Document adds an operation to spec for every route in groups.
func Document(spec *openapi.Spec, groups ...Group) {
	Walk(func(path string, r Route) {
		spec.AddOperation(r.Method, path, r.OpenAPI)
	}, groups...)
}

// Walk calls fn with the full path of every route, descending into child
// groups.
func Walk(fn func(path string, r Route), groups ...Group) {
	for _, g := range groups {
		walk(fn, "", g)
	}
}

func walk(fn func(string, Route), parent string, g Group) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		fn(prefix+r.Pattern, r)
	}
	for _, child := range g.Children {
		walk(fn, prefix, child)
	}
}
