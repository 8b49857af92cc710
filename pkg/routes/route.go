// Package routes declares HTTP routes as data so domains can publish
// their endpoints without owning a mux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/assay/pkg/openapi"
)

// Route binds a method and path pattern to a handler. OpenAPI optionally
// documents the route in the published API document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group nests routes under a shared prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}
