package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// InferenceErrorMessage is the only thing a user sees when the model pipeline fails.
	InferenceErrorMessage = "An error occurred during prediction. Please try again."
	// ValidationErrorMessage describes rejected form or JSON input.
	ValidationErrorMessage = "invalid input"
	// ArtifactErrorMessage describes model artifacts that could not be loaded.
	ArtifactErrorMessage = "model artifact could not be loaded"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapInference hides any pipeline failure behind the generic prediction message.
// Model loading, shape mismatches and classifier faults are deliberately not told apart.
func WrapInference(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusInternalServerError,
		Message: InferenceErrorMessage,
	}
}

// WrapArtifact tags a model artifact loading failure with the artifact name.
func WrapArtifact(name string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     fmt.Errorf("%s: %w", name, err),
		Status:  http.StatusInternalServerError,
		Message: ArtifactErrorMessage,
	}
}

// StatusOf returns the HTTP status carried by err, or 500 for foreign errors.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that is safe to show a user.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
