package email

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid field. Field is a dotted path such as
// "blocks.0.title".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationError is returned when a request fails validation. Details holds
// every violation found within the scope that failed.
type ValidationError struct {
	Message string
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// TemplateNotFoundError is returned when no renderer is registered under Name.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("Template '%s' not found", e.Name)
}

// RenderingError wraps any failure raised while producing markup.
type RenderingError struct {
	Template TemplateName
	Err      error
}

func (e *RenderingError) Error() string {
	return "Failed to render email: " + e.Err.Error()
}

func (e *RenderingError) Unwrap() error { return e.Err }
