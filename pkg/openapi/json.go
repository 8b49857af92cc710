package openapi

import (
	"encoding/json"
	"net/http"
)

// MarshalJSON serializes the spec to indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec returns a handler writing pre-serialized spec bytes.
func ServeSpec(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
