package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// AuditRequestSchema describes the body of the submit and score endpoints.
// Answer values may be strings, numbers, booleans or null.
const AuditRequestSchema = `{
  "type": "object",
  "required": ["answers"],
  "properties": {
    "answers": {
      "type": "object",
      "maxProperties": 64,
      "additionalProperties": {
        "anyOf": [
          {"type": "string", "maxLength": 5000},
          {"type": "number"},
          {"type": "boolean"},
          {"type": "null"}
        ]
      }
    }
  }
}`

var auditRequestSchema = gojsonschema.NewStringLoader(AuditRequestSchema)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateAuditRequest checks a raw request body against AuditRequestSchema.
func ValidateAuditRequest(body []byte) *ValidationResult {
	return ValidateJSON(body, auditRequestSchema)
}

// ValidateJSON validates a JSON document against a schema loader.
func ValidateJSON(body []byte, schema gojsonschema.JSONLoader) *ValidationResult {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
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

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}

	return &ValidationResult{Valid: result.Valid(), Errors: errs}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

var validate = validator.New()

// ValidateEmail reports whether email is a single well-formed address.
func ValidateEmail(email string) error {
	return validate.Var(strings.TrimSpace(email), "required,email")
}
