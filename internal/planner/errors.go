package planner

import "errors"

var (
	// ErrInvalidInput means the UserInput was rejected before any external call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrService means the text generation service call itself failed.
	ErrService = errors.New("service error")
	// ErrParse means the service response was not valid JSON.
	ErrParse = errors.New("parse error")
	// ErrValidation means the JSON did not have the expected plan shape.
	ErrValidation = errors.New("invalid response")
)

// GenerationError is returned by every failed generation. It matches both its
// Kind sentinel and the underlying cause under errors.Is and errors.As.
type GenerationError struct {
	Kind error
	Err  error
}

func (e *GenerationError) Error() string {
	return "failed to generate diet plan: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Outcome labels err for logs and metrics: "success" for nil, otherwise the
// failure kind.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrService):
		return "service_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "unknown_error"
	}
}
