package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/pkg/openapi"
	"github.com/JaimeStill/assay/pkg/routes"
)

// schemas are the domain payloads referenced by documented operations.
var schemas = map[string]*openapi.Schema{
	"Record": {
		Type:        "object",
		Description: "Extraction record of one final random inspection report. GET /prompts/types/FRI/schema returns the full field contract.",
	},
	"Report": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"part_2_analysis": {Type: "object", Description: "Per-step validation results"},
			"part_3_verdict":  {Type: "object", Description: "Lab result, computed result, and verdict type"},
			"all_issues":      {Type: "array", Items: &openapi.Schema{Type: "object"}},
		},
	},
	"ContractViolations": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"error": {Type: "string"},
			"violations": {Type: "array", Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"field":   {Type: "string"},
					"message": {Type: "string"},
				},
			}},
		},
	},
	"AQLRow": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"lot_min":     {Type: "integer"},
			"lot_max":     {Type: "integer"},
			"level":       {Type: "string", Example: "II"},
			"letter":      {Type: "string", Example: "L"},
			"sample_size": {Type: "integer", Example: 200},
			"critical":    {Type: "integer"},
			"major_1_5":   {Type: "integer"},
			"major_2_5":   {Type: "integer"},
			"minor_4_0":   {Type: "integer"},
		},
	},
	"Summary": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"pending":     {Type: "integer"},
			"completed":   {Type: "integer"},
			"failed":      {Type: "integer"},
			"skipped":     {Type: "integer"},
			"verdicts":    {Type: "object", AdditionalProperties: &openapi.Schema{Type: "integer"}},
			"failures":    {Type: "array", Items: &openapi.Schema{Type: "object"}},
			"duration_ms": {Type: "integer"},
		},
	},
}

// SpecHandler serves the API document generated from the registered
// route groups.
func SpecHandler(cfg *config.Config, groups []routes.Group) (http.HandlerFunc, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(schemas)

	routes.Document(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return openapi.ServeSpec(data), nil
}
