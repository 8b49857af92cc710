// Package results stores the validation outcome of each processed entry:
// the verdict summary in columns and the full extraction and validation
// output as JSON, plus the human review that closes flagged verdicts.
package results

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/inspection"
	"github.com/JaimeStill/assay/internal/verdict"
)

type Result struct {
	ID                        uuid.UUID    `json:"id"`
	EntryID                   uuid.UUID    `json:"entry_id"`
	DocumentType              string       `json:"document_type"`
	LabResult                 fri.Result   `json:"lab_result"`
	ComputedResult            fri.Result   `json:"computed_result"`
	VerdictType               verdict.Type `json:"verdict_type"`
	RequiresHumanVerification bool         `json:"requires_human_verification"`
	BlockingCount             int          `json:"blocking_count"`
	Payload                   Payload      `json:"payload"`
	ModelName                 string       `json:"model_name"`
	ProcessedAt               time.Time    `json:"processed_at"`
	ReviewedBy                *string      `json:"reviewed_by"`
	ReviewedAt                *time.Time   `json:"reviewed_at"`
	ReviewNote                *string      `json:"review_note"`
}

// Payload is stored as JSONB.
type Payload struct {
	ExtractionOutput *fri.Record        `json:"extraction_output"`
	ValidationOutput *inspection.Report `json:"validation_output"`
}

func (p Payload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Payload) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Payload{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("scan payload: unsupported type %T", src)
}

// SaveCommand records the outcome of one pipeline run for an entry.
type SaveCommand struct {
	EntryID      uuid.UUID
	DocumentType string
	ModelName    string
	Record       *fri.Record
	Report       *inspection.Report
}

// ReviewCommand closes a flagged result. ReviewedBy defaults to the
// authenticated caller when omitted.
type ReviewCommand struct {
	ReviewedBy string `json:"reviewed_by"`
	Note       string `json:"note"`
}

// VerdictCount is the number of results with one verdict type.
type VerdictCount struct {
	VerdictType verdict.Type `json:"verdict_type"`
	Total       int          `json:"total"`
	Unreviewed  int          `json:"unreviewed"`
}
