package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/assay/pkg/query"
	"github.com/JaimeStill/assay/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "id").
	Project("name", "name").
	Project("document_type", "document_type").
	Project("instructions", "instructions").
	Project("description", "description").
	Project("active", "active")

const returning = "id, name, document_type, instructions, description, active"

var defaultSort = query.SortField{Field: "name"}

// Filters contains optional filtering criteria for prompt queries.
// Name uses case-insensitive contains matching.
type Filters struct {
	DocumentType *string `json:"document_type,omitempty"`
	Name         *string `json:"name,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("document_type", f.DocumentType).
		WhereContains("name", f.Name).
		WhereEquals("active", f.Active)
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("document_type"); s != "" {
		f.DocumentType = &s
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.DocumentType,
		&p.Instructions,
		&p.Description,
		&p.Active,
	)
	return p, err
}
