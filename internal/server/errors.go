// Package server provides the webhook and chat HTTP API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-sync/internal/chat"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/schemas"
)

// ErrNotFound indicates an unknown resource.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing or invalid portal token.
type ErrUnauthorized struct {
	Err error
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized: %v", e.Err)
}

func (e *ErrUnauthorized) Unwrap() error {
	return e.Err
}

// ErrUnavailable indicates a feature that is not configured on this server.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		validation  *ErrValidation
		unauth      *ErrUnauthorized
		unavailable *ErrUnavailable
		schemaErr   *schemas.ValidationError
		storeErr    *records.Error
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, chat.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &storeErr) && storeErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.Is(err, chat.ErrComplete):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
