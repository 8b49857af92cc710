// Package entries is the control table of reports awaiting extraction
// and validation. Each entry references a PDF in blob storage and tracks
// its processing status and attempt count.
package entries

import (
	"time"

	"github.com/google/uuid"
)

// Status is the processing state of an entry.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// DefaultDocumentType is assigned when a registration names none.
const DefaultDocumentType = "FRI"

type Entry struct {
	ID           uuid.UUID `json:"id"`
	SourceID     string    `json:"source_id"`
	DocumentType string    `json:"document_type"`
	Filename     string    `json:"filename"`
	StorageKey   string    `json:"storage_key"`
	PageCount    *int      `json:"page_count"`
	SizeBytes    int64     `json:"size_bytes"`
	Status       Status    `json:"status"`
	Attempts     int       `json:"attempts"`
	LastError    *string   `json:"last_error"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCommand registers a report. Data must be a readable PDF.
type CreateCommand struct {
	Data         []byte
	Filename     string
	SourceID     string
	DocumentType string
}

// BatchResult is the outcome for one file of a multi-file upload. Exactly
// one of Entry and Error is set.
type BatchResult struct {
	Filename string `json:"filename"`
	Entry    *Entry `json:"entry,omitempty"`
	Error    string `json:"error,omitempty"`
}
