package logging

import "strings"

// Error categories attached to every log entry for filtering and aggregation.
const (
	ErrorTypeDB         = "db_error"
	ErrorTypeEmail      = "email_error"
	ErrorTypeValidation = "validation_error"
	ErrorTypeColdStart  = "cold_start"
	ErrorTypeConfig     = "config_error"
	ErrorTypeSystem     = "system_error"
)

// inferErrorType derives a coarse error category from the sanitized message
// and truncated context. First match wins; order matters.
func inferErrorType(message string, ctx Context) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "database"), strings.Contains(lower, "postgres"), strings.Contains(lower, "sql"):
		return ErrorTypeDB
	case strings.Contains(lower, "email"), strings.Contains(lower, "resend"):
		return ErrorTypeEmail
	case strings.Contains(lower, "validation"), strings.Contains(lower, "invalid"):
		return ErrorTypeValidation
	case strings.Contains(lower, "cold start"):
		return ErrorTypeColdStart
	}

	if _, ok := ctx["missingVar"]; ok {
		return ErrorTypeConfig
	}
	if action, ok := ctx["action"].(string); ok {
		if action == "validate_env" {
			return ErrorTypeConfig
		}
		if action == "validate_request" {
			return ErrorTypeValidation
		}
	}
	if _, ok := ctx["validationErrors"]; ok {
		return ErrorTypeValidation
	}

	return ErrorTypeSystem
}
