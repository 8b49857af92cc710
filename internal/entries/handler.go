package entries

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/pkg/handlers"
	"github.com/JaimeStill/assay/pkg/pagination"
	"github.com/JaimeStill/assay/pkg/routes"
)

type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest is the body of POST /entries/search.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "entries"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/entries",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
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

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	e, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, e)
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

// Upload registers every "file" part of a multipart form. source_id and
// document_type apply to all files. The response is 201 when every file
// registered and 207 when some failed.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	results := make([]BatchResult, 0, len(files))
	failed := 0
	for _, fh := range files {
		res := h.register(r, fh)
		if res.Error != "" {
			failed++
		}
		results = append(results, res)
	}

	status := http.StatusCreated
	switch {
	case failed == len(files):
		status = http.StatusBadRequest
	case failed > 0:
		status = http.StatusMultiStatus
	}
	handlers.RespondJSON(w, status, results)
}

func (h *Handler) register(r *http.Request, fh *multipart.FileHeader) BatchResult {
	res := BatchResult{Filename: fh.Filename}

	data, err := readPart(fh)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	e, err := h.sys.Create(r.Context(), CreateCommand{
		Data:         data,
		Filename:     fh.Filename,
		SourceID:     r.FormValue("source_id"),
		DocumentType: r.FormValue("document_type"),
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidFile) {
			h.logger.Error("register entry failed", "filename", fh.Filename, "error", err)
		}
		res.Error = err.Error()
		return res
	}

	res.Entry = e
	return res
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
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
