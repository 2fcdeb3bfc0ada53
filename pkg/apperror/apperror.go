// Package apperror classifies service errors so handlers can map them to HTTP
// status codes without string matching.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Services wrap these with context via the helpers
// below; handlers test with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// NotFoundf returns an error carrying ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Validationf returns an error carrying ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Conflictf returns an error carrying ErrConflict with a formatted message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// Storagef wraps an underlying storage error as ErrStorage, keeping the cause
// in the message.
func Storagef(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStorage)
}

// HTTPStatus maps a classified error to its response status code. Unclassified
// errors are treated as server errors.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
