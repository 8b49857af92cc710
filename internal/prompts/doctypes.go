package prompts

import (
	"encoding/json"
	"slices"
	"strings"
)

// DocumentType identifies the kind of report a prompt extracts.
type DocumentType string

// FRI is the Final Random Inspection report.
const FRI DocumentType = "FRI"

var documentTypes = []DocumentType{FRI}

// DocumentTypes returns the document types with built-in instructions.
func DocumentTypes() []DocumentType {
	return documentTypes
}

// Valid reports whether d is a known document type.
func (d DocumentType) Valid() bool {
	return slices.Contains(documentTypes, d)
}

// UnmarshalJSON accepts known document types, case-insensitively.
func (d *DocumentType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseDocumentType(raw)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDocumentType validates s as a known document type.
func ParseDocumentType(s string) (DocumentType, error) {
	v := DocumentType(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", ErrInvalidDocumentType
	}
	return v, nil
}
