package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/inspection"
	"github.com/JaimeStill/assay/internal/rules"
	"github.com/JaimeStill/assay/pkg/handlers"
	"github.com/JaimeStill/assay/pkg/openapi"
	"github.com/JaimeStill/assay/pkg/routes"
)

// maxRecordSize bounds a posted extraction record.
const maxRecordSize = 1 << 20

// Lookup resolves a sampling plan row. *rules.Table satisfies it.
type Lookup interface {
	Lookup(quantity int, level string) (rules.Row, error)
}

// ValidateHandler runs the engine on posted records and exposes the
// sampling plan tables.
type ValidateHandler struct {
	validator *inspection.Validator
	table     Lookup
	logger    *slog.Logger
}

func NewValidateHandler(v *inspection.Validator, table Lookup, logger *slog.Logger) *ValidateHandler {
	return &ValidateHandler{
		validator: v,
		table:     table,
		logger:    logger.With("handler", "validate"),
	}
}

func (h *ValidateHandler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{
				Method:  "POST",
				Pattern: "/validate",
				Handler: h.validate,
				OpenAPI: &openapi.Operation{
					Summary:     "Validate an extraction record",
					Description: "Runs the five validation steps and the verdict without persisting anything.",
					RequestBody: openapi.RequestBodyJSON("Record", true),
					Responses: map[int]*openapi.Response{
						http.StatusOK:                  openapi.ResponseJSON("Validation report", "Report"),
						http.StatusUnprocessableEntity: openapi.ResponseJSON("Contract violations or no AQL bracket", "ContractViolations"),
					},
				},
			},
			{
				Method:  "GET",
				Pattern: "/rules/aql",
				Handler: h.lookup,
				OpenAPI: &openapi.Operation{
					Summary: "Look up an AQL sampling plan",
					Parameters: []*openapi.Parameter{
						openapi.QueryParam("quantity", "integer", "Lot size", true),
						openapi.QueryParam("level", "string", "Inspection level, II when omitted", false),
					},
					Responses: map[int]*openapi.Response{
						http.StatusOK:         openapi.ResponseJSON("Sampling plan", "AQLRow"),
						http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
						http.StatusNotFound:   openapi.ResponseRef("NotFound"),
					},
				},
			},
		},
	}
}

// contractResponse lists every violation of a rejected record.
type contractResponse struct {
	Error      string          `json:"error"`
	Violations []fri.Violation `json:"violations"`
}

// validate runs the engine on a posted extraction record without
// persisting anything.
func (h *ValidateHandler) validate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRecordSize))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	report, err := validateRecord(h.validator, data)

	var ce *fri.ContractError
	switch {
	case errors.As(err, &ce):
		h.logger.Warn("record rejected", "violations", len(ce.Violations))
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, contractResponse{
			Error:      fri.ErrContract.Error(),
			Violations: ce.Violations,
		})
	case errors.Is(err, rules.ErrNoBracket):
		handlers.RespondError(w, h.logger, http.StatusUnprocessableEntity, err)
	case err != nil:
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
	default:
		handlers.RespondJSON(w, http.StatusOK, report)
	}
}

func validateRecord(v *inspection.Validator, data []byte) (*inspection.Report, error) {
	rec, err := fri.Decode(data)
	if err != nil {
		return nil, err
	}
	return v.Validate(rec)
}

// lookup returns the sampling plan row for ?quantity=N&level=L.
func (h *ValidateHandler) lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	quantity, err := strconv.Atoi(q.Get("quantity"))
	if err != nil || quantity < 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("quantity must be a non-negative integer"))
		return
	}

	level := q.Get("level")
	if level == "" {
		level = string(fri.LevelII)
	}

	row, err := h.table.Lookup(quantity, level)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rules.ErrNoBracket) {
			status = http.StatusNotFound
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, row)
}
