package entries

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("entry not found")
	ErrDuplicate    = errors.New("entry already exists")
	ErrInProgress   = errors.New("entry is already being processed")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrInvalidID    = errors.New("invalid entry id")
)

// MapHTTPStatus maps entry errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
