// Package extraction turns report PDFs into structured extraction records
// by asking a multimodal model to read them.
package extraction

import (
	"context"
	"errors"

	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/prompts"
)

var (
	ErrEmptyDocument = errors.New("document is empty")
	ErrEmptyResponse = errors.New("model returned no content")
)

// Request is one document to extract.
type Request struct {
	DocumentType prompts.DocumentType
	Filename     string
	Data         []byte
}

// Extractor reads a document and returns its extraction record. A record
// that cannot be decoded or breaks the record contract is reported as a
// *fri.ContractError.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*fri.Record, error)
	Model() string
}

// InstructionSource resolves the instructions for a document type.
// prompts.System satisfies it.
type InstructionSource interface {
	Instructions(ctx context.Context, dt prompts.DocumentType) (string, error)
}

// Defaults serves the built-in instructions without a database.
type Defaults struct{}

func (Defaults) Instructions(_ context.Context, dt prompts.DocumentType) (string, error) {
	return prompts.Instructions(dt)
}
