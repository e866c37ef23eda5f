package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
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
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewReferenceNotFound flags a foreign reference that does not resolve, caught
// before any write.
func NewReferenceNotFound(reference string, details map[string]any) error {
	return NewDomainError("REFERENCE_NOT_FOUND", fmt.Sprintf("%s does not resolve", reference), http.StatusBadRequest, details)
}

// NewNoOpenVersion signals a versioning invariant violation: the entity has no
// row carrying the open sentinel.
func NewNoOpenVersion(entity string, id int64) error {
	return NewDomainError("NO_OPEN_VERSION", fmt.Sprintf("no open version for %s", entity),
		http.StatusConflict, map[string]any{"id": id})
}

func NewNotEditableInPending() error {
	return NewDomainError("NOT_EDITABLE_IN_PENDING", "pending sellers may only be approved or rejected", http.StatusBadRequest, nil)
}

func NewIllegalTransition(from, to string) error {
	return NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("status transition %s -> %s is not allowed", from, to),
		http.StatusBadRequest, map[string]any{"from": from, "to": to})
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewPersistenceError wraps a storage-layer failure. Never retried locally;
// the enclosing transaction rolls back and the caller decides.
func NewPersistenceError(err error) error {
	return &DomainError{
		Code:       "PERSISTENCE_ERROR",
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewPersistenceError(err).(*DomainError)
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

func MapError(err error) error {
	return ToDomainError(err)
}
