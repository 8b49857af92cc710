// Package prompts manages the extraction instructions sent to the model.
// Each document type has built-in default instructions and an output
// schema; named overrides stored in the database can replace the
// instructions, with at most one override active per document type.
package prompts

import "github.com/google/uuid"

// Prompt is a named instruction override for a document type.
type Prompt struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	DocumentType DocumentType `json:"document_type"`
	Instructions string       `json:"instructions"`
	Description  *string      `json:"description"`
	Active       bool         `json:"active"`
}

// CreateCommand carries the data needed to create a prompt override.
type CreateCommand struct {
	Name         string       `json:"name"`
	DocumentType DocumentType `json:"document_type"`
	Instructions string       `json:"instructions"`
	Description  *string      `json:"description"`
}

// UpdateCommand carries the data needed to update a prompt override.
type UpdateCommand struct {
	Name         string       `json:"name"`
	DocumentType DocumentType `json:"document_type"`
	Instructions string       `json:"instructions"`
	Description  *string      `json:"description"`
}

func validate(name string, dt DocumentType, instructions string) error {
	if name == "" || instructions == "" {
		return ErrInvalidPrompt
	}
	if !dt.Valid() {
		return ErrInvalidDocumentType
	}
	return nil
}
