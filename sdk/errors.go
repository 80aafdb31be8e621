package mailrender

import (
	"errors"
	"fmt"
)

// Error codes returned by the API.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeTemplateNotFound    = "TEMPLATE_NOT_FOUND"
	CodeRendering           = "RENDERING_ERROR"
	CodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	CodeDeliveryUnavailable = "DELIVERY_UNAVAILABLE"
	CodeDeliveryFailed      = "DELIVERY_FAILED"
)

// FieldError is one validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// APIError is returned when the API responds with a non-success status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []FieldError
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("mailrender: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mailrender: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsValidation reports whether err is an API validation failure.
func IsValidation(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.Code == CodeValidation
}
