// Package pagination carries page requests and results between list
// handlers and repositories.
package pagination

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/JaimeStill/assay/pkg/query"
)

// SortFields accepts either "name,-created_at" or a JSON array of sort fields.
type SortFields []query.SortField

func (s *SortFields) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = query.ParseSortFields(str)
		return nil
	}

	var fields []query.SortField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = fields
	return nil
}

// PageRequest is a client request for one page of a list.
type PageRequest struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Search   *string    `json:"search,omitempty"`
	Sort     SortFields `json:"sort,omitempty"`
}

// Normalize clamps the page to 1 and the size to the configured bounds.
func (r *PageRequest) Normalize(cfg Config) {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

// PageRequestFromQuery reads page, page_size, search, and sort from values.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	req := PageRequest{Sort: query.ParseSortFields(values.Get("sort"))}
	req.Page, _ = strconv.Atoi(values.Get("page"))
	req.PageSize, _ = strconv.Atoi(values.Get("page_size"))
	if s := values.Get("search"); s != "" {
		req.Search = &s
	}

	req.Normalize(cfg)
	return req
}

// PageResult is one page of data and its position in the full list.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult computes the page count. Data is never nil and there is
// always at least one page.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	pages := 1
	if pageSize > 0 {
		pages = max((total+pageSize-1)/pageSize, 1)
	}
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}
