package pipeline

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/internal/entries"
	"github.com/JaimeStill/assay/pkg/handlers"
	"github.com/JaimeStill/assay/pkg/openapi"
	"github.com/JaimeStill/assay/pkg/routes"
)

// Handler exposes pipeline runs over HTTP.
type Handler struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

func NewHandler(p *Pipeline, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline: p,
		logger:   logger.With("handler", "pipeline"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{
				Method:  "POST",
				Pattern: "/pipeline/run",
				Handler: h.Run,
				OpenAPI: &openapi.Operation{
					Summary: "Process one batch of pending entries",
					Responses: map[int]*openapi.Response{
						http.StatusOK:       openapi.ResponseJSON("Run summary", "Summary"),
						http.StatusConflict: openapi.ResponseRef("Conflict"),
					},
				},
			},
			{
				Method:  "POST",
				Pattern: "/entries/{id}/process",
				Handler: h.Process,
				OpenAPI: &openapi.Operation{
					Summary:    "Process one entry regardless of its attempt count",
					Tags:       []string{"pipeline"},
					Parameters: []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
					Responses: map[int]*openapi.Response{
						http.StatusOK:                  {Description: "Stored result"},
						http.StatusNotFound:            openapi.ResponseRef("NotFound"),
						http.StatusConflict:            openapi.ResponseRef("Conflict"),
						http.StatusUnprocessableEntity: openapi.ResponseRef("Unprocessable"),
					},
				},
			},
		},
	}
}

// Run processes one batch of pending entries and returns its summary.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	summary, err := h.pipeline.Run(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Process runs one entry and returns its result.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, entries.ErrInvalidID)
		return
	}

	res, err := h.pipeline.Process(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, res)
}
