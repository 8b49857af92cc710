package prompts_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/fri/fritest"
	"github.com/JaimeStill/assay/internal/prompts"
)

func TestParseDocumentType(t *testing.T) {
	dt, err := prompts.ParseDocumentType(" fri ")
	require.NoError(t, err)
	assert.Equal(t, prompts.FRI, dt)

	_, err = prompts.ParseDocumentType("invoice")
	assert.ErrorIs(t, err, prompts.ErrInvalidDocumentType)
}

func TestDocumentTypeJSON(t *testing.T) {
	var cmd prompts.CreateCommand
	require.NoError(t, json.Unmarshal([]byte(`{"name":"strict","document_type":"fri"}`), &cmd))
	assert.Equal(t, prompts.FRI, cmd.DocumentType)

	err := json.Unmarshal([]byte(`{"document_type":"packing_list"}`), &cmd)
	assert.ErrorIs(t, err, prompts.ErrInvalidDocumentType)
}

func TestCompose(t *testing.T) {
	text, err := prompts.Compose(prompts.FRI, "read the report")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "read the report\n\n"))
	assert.Contains(t, text, `"overall_inspection_conclusion"`)

	_, err = prompts.Compose("OTHER", "x")
	assert.ErrorIs(t, err, prompts.ErrInvalidDocumentType)
}

func TestDefaultsCoverEveryType(t *testing.T) {
	for _, dt := range prompts.DocumentTypes() {
		text, err := prompts.Instructions(dt)
		require.NoError(t, err, dt)
		assert.NotEmpty(t, text)

		schema, err := prompts.Schema(dt)
		require.NoError(t, err, dt)
		assert.Contains(t, schema, "JSON")
	}
}

func TestResponseSchema(t *testing.T) {
	schema, err := prompts.ResponseSchema(prompts.FRI)
	require.NoError(t, err)
	assert.Equal(t, "object", schema["type"])

	_, err = prompts.ResponseSchema("OTHER")
	assert.ErrorIs(t, err, prompts.ErrInvalidDocumentType)
}

// Every key the response schema requires is also rejected by the record
// contract when absent.
func TestResponseSchemaMatchesContract(t *testing.T) {
	schema, err := prompts.ResponseSchema(prompts.FRI)
	require.NoError(t, err)

	required, ok := schema["required"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, required)

	for _, key := range required {
		name := key.(string)
		t.Run(name, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, json.Unmarshal(fritest.JSON(t, fritest.Conforming()), &doc))
			delete(doc, name)
			data, err := json.Marshal(doc)
			require.NoError(t, err)

			_, err = fri.Decode(data)
			assert.ErrorIs(t, err, fri.ErrContract)
			assert.Contains(t, err.Error(), name+": required")
		})
	}
}
