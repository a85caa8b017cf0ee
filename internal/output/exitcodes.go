package output

import "errors"

// Exit codes. Every failure kind (missing input, missing template, template
// error, no compiler, compile failure) exits with ExitFailure.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	// Detail is extra diagnostic text shown below the message,
	// such as a compiler's captured output.
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewError creates a failure with the given message.
func NewError(message string) *ExitError {
	return &ExitError{
		Code:    ExitFailure,
		Message: message,
	}
}

// NewErrorWithCause creates a failure wrapping an underlying cause.
func NewErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitFailure,
		Message: message,
		Cause:   cause,
	}
}

// WithDetail attaches diagnostic text and returns e for chaining.
func (e *ExitError) WithDetail(detail string) *ExitError {
	e.Detail = detail
	return e
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitFailure for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}
