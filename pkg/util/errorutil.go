package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/booking"
	"github.com/parceldesk/courier-client/internal/lifecycle"
	"github.com/parceldesk/courier-client/internal/session"
)

// DomainError standardizes application errors surfaced by the client.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewBadRequest(message string) error {
	return NewDomainError("BAD_REQUEST", message, http.StatusBadRequest, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts core errors into DomainError. Validation
// failures keep their ordered violation list; rejected transitions name
// both states; rejected sessions map to unauthorized so the caller can
// force a re-login.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *booking.ValidationError
	if errors.As(err, &validationErr) {
		return &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    "booking request is invalid",
			HTTPStatus: http.StatusBadRequest,
			Details:    map[string]any{"violations": validationErr.Violations},
			Err:        err,
		}
	}

	var rejected *lifecycle.TransitionRejected
	if errors.As(err, &rejected) {
		return &DomainError{
			Code:       "TRANSITION_REJECTED",
			Message:    rejected.Error(),
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"from": rejected.From, "to": rejected.To},
			Err:        err,
		}
	}

	if errors.Is(err, session.ErrInvalidSession) || errors.Is(err, backend.ErrSessionRejected) {
		if de, ok := NewUnauthorized("session invalid, please log in again").(*DomainError); ok {
			de.Err = err
			return de
		}
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return &DomainError{
			Code:       "BACKEND_ERROR",
			Message:    apiErr.Message,
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
