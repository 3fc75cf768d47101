// internal/common/validation/schema.go
package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorSummary flattens the validation errors into one human-readable string.
func (r *ValidationResult) ErrorSummary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Field != "" && e.Field != "(root)" {
			parts = append(parts, e.Field+": "+e.Message)
			continue
		}
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}

// projectDataSchema mirrors the ProjectData request shape. Dimension values
// arrive as either strings or numbers from the form frontend.
var projectDataSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"description"},
	"properties": map[string]interface{}{
		"description":     map[string]interface{}{"type": "string", "minLength": 1},
		"address":         map[string]interface{}{"type": []interface{}{"string", "null"}},
		"parcel_id":       map[string]interface{}{"type": []interface{}{"string", "null"}},
		"structure_type":  map[string]interface{}{"type": "string"},
		"location_on_lot": map[string]interface{}{"type": []interface{}{"string", "null"}},
		"property_type":   map[string]interface{}{"type": "string"},
		"dimensions":      dimensionsSchema,
		"materials":       materialsSchema,
	},
}

var dimensionsSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"length": map[string]interface{}{"type": []interface{}{"string", "number", "null"}},
		"width":  map[string]interface{}{"type": []interface{}{"string", "number", "null"}},
		"height": map[string]interface{}{"type": []interface{}{"string", "number", "null"}},
	},
}

var materialsSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"exterior":   map[string]interface{}{"type": []interface{}{"string", "null"}},
		"roofing":    map[string]interface{}{"type": []interface{}{"string", "null"}},
		"foundation": map[string]interface{}{"type": []interface{}{"string", "null"}},
	},
}

// visualRequestSchema does not restrict visual_type: unrecognized types fall
// back to a generic prompt template downstream.
var visualRequestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"structure_type"},
	"properties": map[string]interface{}{
		"structure_type":  map[string]interface{}{"type": "string", "minLength": 1},
		"visual_type":     map[string]interface{}{"type": "string"},
		"custom_prompt":   map[string]interface{}{"type": []interface{}{"string", "null"}},
		"address":         map[string]interface{}{"type": []interface{}{"string", "null"}},
		"location_on_lot": map[string]interface{}{"type": []interface{}{"string", "null"}},
		"dimensions":      dimensionsSchema,
		"materials":       materialsSchema,
	},
}

// ValidateProjectData validates a raw request body against the ProjectData schema.
func ValidateProjectData(raw []byte) *ValidationResult {
	return validateAgainst(raw, projectDataSchema)
}

// ValidateVisualRequest validates a raw request body against the VisualRequest schema.
func ValidateVisualRequest(raw []byte) *ValidationResult {
	return validateAgainst(raw, visualRequestSchema)
}

func validateAgainst(raw []byte, schema map[string]interface{}) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_JSON",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}
