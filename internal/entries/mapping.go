package entries

import (
	"net/url"

	"github.com/JaimeStill/assay/pkg/query"
	"github.com/JaimeStill/assay/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "entries", "e").
	Project("id", "id").
	Project("source_id", "source_id").
	Project("document_type", "document_type").
	Project("filename", "filename").
	Project("storage_key", "storage_key").
	Project("page_count", "page_count").
	Project("size_bytes", "size_bytes").
	Project("status", "status").
	Project("attempts", "attempts").
	Project("last_error", "last_error").
	Project("created_at", "created_at").
	Project("updated_at", "updated_at")

// returning lists the same columns as projection for INSERT/UPDATE ... RETURNING.
const returning = `id, source_id, document_type, filename, storage_key, page_count, size_bytes,
	status, attempts, last_error, created_at, updated_at`

var defaultSort = query.SortField{Field: "created_at", Descending: true}

// Filters narrows entry queries. Nil fields are ignored; Filename matches
// as a case-insensitive substring.
type Filters struct {
	Status       *string `json:"status,omitempty"`
	DocumentType *string `json:"document_type,omitempty"`
	SourceID     *string `json:"source_id,omitempty"`
	Filename     *string `json:"filename,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("status", f.Status).
		WhereEquals("document_type", f.DocumentType).
		WhereEquals("source_id", f.SourceID).
		WhereContains("filename", f.Filename)
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}
	if sid := values.Get("source_id"); sid != "" {
		f.SourceID = &sid
	}
	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}
	return f
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.SourceID,
		&e.DocumentType,
		&e.Filename,
		&e.StorageKey,
		&e.PageCount,
		&e.SizeBytes,
		&e.Status,
		&e.Attempts,
		&e.LastError,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}
