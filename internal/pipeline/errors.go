package pipeline

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/assay/internal/entries"
	"github.com/JaimeStill/assay/internal/extraction"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/rules"
)

var ErrRunning = errors.New("pipeline run already in progress")

// MapHTTPStatus maps processing failures to HTTP status codes. Records the
// engine cannot validate are unprocessable; model failures are upstream.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, entries.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entries.ErrInProgress), errors.Is(err, ErrRunning):
		return http.StatusConflict
	case errors.Is(err, fri.ErrContract), errors.Is(err, rules.ErrNoBracket):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extraction.ErrEmptyResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
