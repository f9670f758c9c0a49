// Package apperr defines the error kinds shared by the triage pipeline and
// the lifecycle manager.
//
// Operations wrap one of the sentinels with context:
//
//	return fmt.Errorf("%w: issue %s is already assigned", apperr.ErrConflict, id.Hex())
//
// and callers classify with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks rejected input (empty report text, missing
	// registration fields, out-of-range values).
	ErrValidation = errors.New("validation failed")

	// ErrAuth marks a credential mismatch or a missing session.
	ErrAuth = errors.New("authentication failed")

	// ErrConflict marks an operation that clashes with current state
	// (duplicate username, issue already assigned, project already completed).
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an unknown issue, project or contractor id.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks an unreachable collaborator. The triage pipeline
	// always recovers from it.
	ErrUnavailable = errors.New("service unavailable")

	// ErrPersistence marks a failed document store write. The operation that
	// returns it has made no change.
	ErrPersistence = errors.New("persistence failed")
)

// HTTPStatus maps an error to the status code a handler should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns a short machine-readable name for err's kind, or "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}
