package results

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("result not found")
	ErrDuplicate     = errors.New("result already exists")
	ErrInvalidID     = errors.New("invalid result id")
	ErrInvalidReview = errors.New("reviewed_by required")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidReview):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
