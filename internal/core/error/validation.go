package errx

import (
	"errors"
	"net/http"
	"strings"
)

// FieldError is a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rejected field of one request.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// WrapValidation maps field errors to a 400 AppError.
func WrapValidation(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &AppError{
		Err:     &ValidationError{Fields: fields},
		Status:  http.StatusBadRequest,
		Message: ValidationErrorMessage,
	}
}

// FieldErrors extracts the rejected fields from err, or nil when err is not a validation failure.
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
