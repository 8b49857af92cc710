package prompts

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("prompt not found")
	ErrDuplicate           = errors.New("prompt name already exists")
	ErrInvalidDocumentType = errors.New("unknown document type")
	ErrInvalidPrompt       = errors.New("prompt name and instructions are required")
)

// MapHTTPStatus maps prompt domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidDocumentType), errors.Is(err, ErrInvalidPrompt):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
