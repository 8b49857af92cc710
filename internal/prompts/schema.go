package prompts

import (
	"encoding/json"
	"fmt"
)

const friSchema = `Respond with a single JSON object matching this exact structure:

{
  "report": {"laboratory": "", "id_report": "", "date_report": "YYYY-MM-DD"},
  "barcode": {
    "gtin": "",
    "export_carton": "",
    "format_export_carton": "",
    "format_packaging": ""
  },
  "product": {
    "product_label": "",
    "product_description": "",
    "supplier_label": "",
    "supplier_ref": "",
    "manufacturer_label": ""
  },
  "silica_gel": {
    "carton": "export | inner | package",
    "quantity": 0,
    "white_transparent": false,
    "name": "Silica Gel | Dri Caly Micro Pak | Calcium Chlorid"
  },
  "command_informations": {
    "commands": [
      {
        "po": "",
        "lec": "",
        "quantity": {"order_quantity": 0, "order_carton": 0, "presented_quantity": 0, "presented_carton": 0}
      }
    ],
    "command_total": {
      "po": null,
      "lec": null,
      "total_quantity": {"order_quantity": 0, "order_carton": 0, "presented_quantity": 0, "presented_carton": 0}
    }
  },
  "inspection_conclusion": {
    "style_material": "pass",
    "function_test": "pass",
    "workmanship": "pass",
    "shipping_mark": "pass",
    "packaging_label": "pass",
    "measurement": "pass",
    "barcode_grade": "pass"
  },
  "overall_inspection_conclusion": "pass",
  "notes": {"nc_remarks": [], "informative_remarks": [], "notes": []},
  "aql": {
    "general_check": {
      "level": "I | II | III",
      "sample_size": 0,
      "no_opened_carton": 0,
      "category": {"critical": 0, "major": 2.5, "minor": 4.0},
      "maximum_allowed": {"critical": 0, "major": 0, "minor": 0},
      "defect_description": [
        {"defect_description": "", "critical": 0, "major": 0, "minor": 0}
      ]
    },
    "special_check": {
      "level": "S1 | S2 | S3 | S4",
      "sample_size": 0,
      "category": {"critical": 0, "major": 2.5, "minor": 4.0},
      "defect_description": []
    }
  },
  "shipping_marks": {
    "barcode_conformity_inner_carton": "",
    "barcode_conformity_master_carton": ""
  }
}

Constraints:
- Every result field is one of "pass", "fail" or "in_waiting".
- Counts and quantities are non-negative integers.
- Omit "commands" for a single order and "special_check" when absent.
- Respond with JSON only. No markdown fencing and no commentary.`

var schemas = map[DocumentType]string{
	FRI: friSchema,
}

// Schema returns the JSON output contract for a document type.
func Schema(dt DocumentType) (string, error) {
	text, ok := schemas[dt]
	if !ok {
		return "", ErrInvalidDocumentType
	}
	return text, nil
}

const friResponseSchema = `{
  "type": "object",
  "properties": {
    "report": {
      "type": "object",
      "properties": {
        "laboratory": {"type": "string"},
        "id_report": {"type": "string"},
        "date_report": {"type": "string"}
      },
      "required": ["laboratory", "id_report", "date_report"]
    },
    "barcode": {
      "type": "object",
      "properties": {
        "gtin": {"type": "string"},
        "export_carton": {"type": "string"},
        "format_export_carton": {"type": "string"},
        "format_packaging": {"type": "string"}
      },
      "required": ["gtin", "export_carton", "format_export_carton", "format_packaging"]
    },
    "product": {
      "type": "object",
      "properties": {
        "product_label": {"type": "string"},
        "product_description": {"type": "string"},
        "supplier_label": {"type": "string"},
        "supplier_ref": {"type": "string"},
        "manufacturer_label": {"type": "string"}
      },
      "required": ["product_label", "product_description", "supplier_label", "supplier_ref", "manufacturer_label"]
    },
    "silica_gel": {
      "type": ["object", "null"],
      "properties": {
        "carton": {"type": "string", "enum": ["export", "inner", "package"]},
        "quantity": {"type": "integer", "minimum": 0},
        "white_transparent": {"type": "boolean"},
        "name": {"type": "string", "enum": ["Silica Gel", "Dri Caly Micro Pak", "Calcium Chlorid"]}
      },
      "required": ["carton", "quantity", "white_transparent", "name"]
    },
    "command_informations": {
      "type": "object",
      "properties": {
        "commands": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "po": {"type": "string"},
              "lec": {"type": "string"},
              "quantity": {"$ref": "#/$defs/quantity"}
            },
            "required": ["po", "lec", "quantity"]
          }
        },
        "command_total": {
          "type": "object",
          "properties": {
            "po": {"type": ["string", "null"]},
            "lec": {"type": ["string", "null"]},
            "total_quantity": {"$ref": "#/$defs/quantity"}
          },
          "required": ["total_quantity"]
        }
      },
      "required": ["command_total"]
    },
    "inspection_conclusion": {
      "type": "object",
      "properties": {
        "style_material": {"$ref": "#/$defs/result"},
        "function_test": {"$ref": "#/$defs/result"},
        "workmanship": {"$ref": "#/$defs/result"},
        "shipping_mark": {"$ref": "#/$defs/result"},
        "packaging_label": {"$ref": "#/$defs/result"},
        "measurement": {"$ref": "#/$defs/result"},
        "barcode_grade": {"$ref": "#/$defs/result"}
      },
      "required": ["style_material", "function_test", "workmanship", "shipping_mark", "packaging_label", "measurement", "barcode_grade"]
    },
    "overall_inspection_conclusion": {"$ref": "#/$defs/result"},
    "notes": {
      "type": "object",
      "properties": {
        "nc_remarks": {"type": "array", "items": {"type": "string"}},
        "informative_remarks": {"type": "array", "items": {"type": "string"}},
        "notes": {"type": "array", "items": {"type": "string"}}
      }
    },
    "aql": {
      "type": "object",
      "properties": {
        "general_check": {
          "type": "object",
          "properties": {
            "level": {"type": "string", "enum": ["I", "II", "III"]},
            "sample_size": {"type": "integer", "minimum": 1},
            "no_opened_carton": {"type": "integer", "minimum": 0},
            "category": {"$ref": "#/$defs/category"},
            "maximum_allowed": {"$ref": "#/$defs/maximum_allowed"},
            "defect_description": {"type": "array", "items": {"$ref": "#/$defs/defect"}}
          },
          "required": ["level", "sample_size", "no_opened_carton", "category"]
        },
        "special_check": {
          "type": "object",
          "properties": {
            "level": {"type": "string", "enum": ["S1", "S2", "S3", "S4"]},
            "sample_size": {"type": "integer", "minimum": 1},
            "category": {"$ref": "#/$defs/category"},
            "maximum_allowed": {"$ref": "#/$defs/maximum_allowed"},
            "defect_description": {"type": "array", "items": {"$ref": "#/$defs/defect"}}
          },
          "required": ["level", "sample_size", "category"]
        }
      },
      "required": ["general_check"]
    },
    "shipping_marks": {
      "type": "object",
      "properties": {
        "barcode_conformity_inner_carton": {"type": "string"},
        "barcode_conformity_master_carton": {"type": "string"}
      },
      "required": ["barcode_conformity_inner_carton", "barcode_conformity_master_carton"]
    }
  },
  "required": [
    "report", "barcode", "product", "command_informations", "inspection_conclusion",
    "overall_inspection_conclusion", "notes", "aql", "shipping_marks"
  ],
  "$defs": {
    "result": {"type": "string", "enum": ["pass", "fail", "in_waiting"]},
    "quantity": {
      "type": "object",
      "properties": {
        "order_quantity": {"type": "integer", "minimum": 0},
        "order_carton": {"type": "integer", "minimum": 0},
        "presented_quantity": {"type": "integer", "minimum": 0},
        "presented_carton": {"type": "integer", "minimum": 0}
      },
      "required": ["order_quantity", "order_carton", "presented_quantity", "presented_carton"]
    },
    "category": {
      "type": "object",
      "properties": {
        "critical": {"type": "number"},
        "major": {"type": "number"},
        "minor": {"type": "number"}
      },
      "required": ["critical", "major", "minor"]
    },
    "maximum_allowed": {
      "type": "object",
      "properties": {
        "critical": {"type": "integer", "minimum": 0},
        "major": {"type": "integer", "minimum": 0},
        "minor": {"type": "integer", "minimum": 0}
      },
      "required": ["critical", "major", "minor"]
    },
    "defect": {
      "type": "object",
      "properties": {
        "defect_description": {"type": "string"},
        "critical": {"type": "integer", "minimum": 0},
        "major": {"type": "integer", "minimum": 0},
        "minor": {"type": "integer", "minimum": 0}
      },
      "required": ["defect_description"]
    }
  }
}`

var responseSchemas = map[DocumentType]string{
	FRI: friResponseSchema,
}

// ResponseSchema returns the JSON Schema that constrains model output for
// a document type. A fresh map is returned on every call.
func ResponseSchema(dt DocumentType) (map[string]any, error) {
	text, ok := responseSchemas[dt]
	if !ok {
		return nil, ErrInvalidDocumentType
	}

	var schema map[string]any
	if err := json.Unmarshal([]byte(text), &schema); err != nil {
		return nil, fmt.Errorf("parse response schema for %s: %w", dt, err)
	}
	return schema, nil
}
