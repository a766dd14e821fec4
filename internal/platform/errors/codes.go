// Package errors provides structured domain errors with HTTP status mapping.
package errors

import "net/http"

// Code is a machine-readable error code exposed on the wire.
type Code string

const (
	// CodeValidation indicates one or more input fields failed validation.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeUnauthorized indicates a missing or mismatched bearer token.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeNotFound indicates the requested record does not exist or is not
	// visible to the caller.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvalidTransition indicates a disallowed event status change.
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	// CodeInternal indicates an unexpected failure with no exposable detail.
	CodeInternal Code = "INTERNAL_ERROR"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeInvalidTransition:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
