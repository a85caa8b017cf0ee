package render

import "fmt"

// TemplateError reports a malformed directive, an unregistered filter, or a
// failure while executing a template.
type TemplateError struct {
	Template string
	Err      error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Template, e.Err)
}

// Unwrap returns the engine error.
func (e *TemplateError) Unwrap() error {
	return e.Err
}
