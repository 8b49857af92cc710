package results

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/pkg/handlers"
	"github.com/JaimeStill/assay/pkg/middleware"
	"github.com/JaimeStill/assay/pkg/pagination"
	"github.com/JaimeStill/assay/pkg/routes"
)

type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

type SearchRequest struct {
	pagination.PageRequest
	Filters
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "results"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/results",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/entry/{id}", Handler: h.FindByEntry},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/review", Handler: h.Review},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page, FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SearchRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, h.sys.Find)
}

func (h *Handler) FindByEntry(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, h.sys.FindByEntry)
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request, lookup func(context.Context, uuid.UUID) (*Result, error)) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	res, err := lookup(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, res)
}

// Review records a human decision on a result. Without an explicit
// reviewed_by the authenticated caller's email, or else subject, is used.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	cmd, err := handlers.DecodeJSON[ReviewCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if cmd.ReviewedBy == "" {
		if p, ok := middleware.PrincipalFrom(r.Context()); ok {
			cmd.ReviewedBy = p.Email
			if cmd.ReviewedBy == "" {
				cmd.ReviewedBy = p.Subject
			}
		}
	}

	res, err := h.sys.Review(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, res)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, counts)
}
