package prompts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/pkg/handlers"
	"github.com/JaimeStill/assay/pkg/pagination"
	"github.com/JaimeStill/assay/pkg/routes"
)

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// Content is the response type for document-type scoped text.
type Content struct {
	DocumentType DocumentType `json:"document_type"`
	Content      string       `json:"content"`
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/types", Handler: h.DocumentTypes},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/types/{type}/instructions", Handler: h.Instructions},
			{Method: "GET", Pattern: "/types/{type}/schema", Handler: h.Schema},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/activate", Handler: h.Activate},
			{Method: "POST", Pattern: "/{id}/deactivate", Handler: h.Deactivate},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) DocumentTypes(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, DocumentTypes())
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	prompt, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Instructions returns the effective instructions for a document type:
// the active override if one exists, otherwise the built-in default.
func (h *Handler) Instructions(w http.ResponseWriter, r *http.Request) {
	dt, err := ParseDocumentType(r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	text, err := h.sys.Instructions(r.Context(), dt)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Content{DocumentType: dt, Content: text})
}

// Schema returns the output contract appended to every extraction prompt.
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	dt, err := ParseDocumentType(r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	text, err := Schema(dt)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Content{DocumentType: dt, Content: text})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[CreateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prompt, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, prompt)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[UpdateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prompt, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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

// Activate makes a prompt the active override for its document type,
// deactivating the previous one in the same transaction.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.sys.Activate)
}

// Deactivate clears the active flag so the document type falls back to
// its built-in instructions.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.sys.Deactivate)
}

func (h *Handler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, uuid.UUID) (*Prompt, error),
) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	prompt, err := fn(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
