package openapi

import "maps"

// NewComponents creates Components holding the page request schema and
// the error responses shared by every domain.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:       "object",
				Properties: map[string]*Schema{"error": {Type: "string"}},
				Required:   []string{"error"},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields, - prefix for descending. Example: -created_at"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":    errorResponse("Invalid request"),
			"NotFound":      errorResponse("Resource not found"),
			"Conflict":      errorResponse("Resource conflict"),
			"Unprocessable": errorResponse("Record could not be validated"),
		},
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
