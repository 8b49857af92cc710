// Package openapi builds the OpenAPI 3.1 document published by the API
// module. Operations are attached to routes where they are declared; any
// route without one still appears with its path parameters.
package openapi

import (
	"net/http"
	"strings"
)

// Spec represents an OpenAPI 3.1 document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Components: NewComponents(),
		Paths:      make(map[string]*PathItem),
	}
}

func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddOperation places op on path under method. When op is nil a minimal
// operation is derived from the path: its first segment as the tag and a
// string parameter for each {wildcard}.
func (s *Spec) AddOperation(method, path string, op *Operation) {
	if op == nil {
		op = &Operation{}
	}
	if len(op.Tags) == 0 {
		if tag := firstSegment(path); tag != "" {
			op.Tags = []string{tag}
		}
	}
	if op.Parameters == nil {
		op.Parameters = pathParams(path)
	}
	if op.Responses == nil {
		op.Responses = map[int]*Response{http.StatusOK: {Description: "OK"}}
	}

	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	}
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if strings.HasPrefix(seg, "{") {
		return ""
	}
	return seg
}

func pathParams(path string) []*Parameter {
	var params []*Parameter
	for _, seg := range strings.Split(path, "/") {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
		if name == "id" {
			params = append(params, PathParam(name, "Identifier"))
			continue
		}
		params = append(params, &Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: "string"},
		})
	}
	return params
}
