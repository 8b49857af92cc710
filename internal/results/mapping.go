package results

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/assay/pkg/query"
	"github.com/JaimeStill/assay/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "results", "r").
	Project("id", "id").
	Project("entry_id", "entry_id").
	Project("document_type", "document_type").
	Project("lab_result", "lab_result").
	Project("computed_result", "computed_result").
	Project("verdict_type", "verdict_type").
	Project("requires_human_verification", "requires_human_verification").
	Project("blocking_count", "blocking_count").
	Project("payload", "payload").
	Project("model_name", "model_name").
	Project("processed_at", "processed_at").
	Project("reviewed_by", "reviewed_by").
	Project("reviewed_at", "reviewed_at").
	Project("review_note", "review_note")

const returning = `id, entry_id, document_type, lab_result, computed_result, verdict_type,
	requires_human_verification, blocking_count, payload, model_name, processed_at,
	reviewed_by, reviewed_at, review_note`

var defaultSort = query.SortField{Field: "processed_at", Descending: true}

// Filters narrows result queries. Reviewed selects results with (true) or
// without (false) a recorded review.
type Filters struct {
	VerdictType               *string `json:"verdict_type,omitempty"`
	LabResult                 *string `json:"lab_result,omitempty"`
	DocumentType              *string `json:"document_type,omitempty"`
	RequiresHumanVerification *bool   `json:"requires_human_verification,omitempty"`
	Reviewed                  *bool   `json:"reviewed,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("verdict_type", f.VerdictType).
		WhereEquals("lab_result", f.LabResult).
		WhereEquals("document_type", f.DocumentType).
		WhereEquals("requires_human_verification", f.RequiresHumanVerification)

	if f.Reviewed != nil {
		unreviewed := !*f.Reviewed
		b.WhereNull("reviewed_at", &unreviewed)
	}
	return b
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if v := values.Get("verdict_type"); v != "" {
		f.VerdictType = &v
	}
	if v := values.Get("lab_result"); v != "" {
		f.LabResult = &v
	}
	if v := values.Get("document_type"); v != "" {
		f.DocumentType = &v
	}
	f.RequiresHumanVerification = boolParam(values, "requires_human_verification")
	f.Reviewed = boolParam(values, "reviewed")
	return f
}

func boolParam(values url.Values, name string) *bool {
	b, err := strconv.ParseBool(values.Get(name))
	if err != nil {
		return nil
	}
	return &b
}

func scanResult(s repository.Scanner) (Result, error) {
	var r Result
	err := s.Scan(
		&r.ID,
		&r.EntryID,
		&r.DocumentType,
		&r.LabResult,
		&r.ComputedResult,
		&r.VerdictType,
		&r.RequiresHumanVerification,
		&r.BlockingCount,
		&r.Payload,
		&r.ModelName,
		&r.ProcessedAt,
		&r.ReviewedBy,
		&r.ReviewedAt,
		&r.ReviewNote,
	)
	return r, err
}
