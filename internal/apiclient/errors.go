package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Transport ─────────────────────────────────────────────────────
	ErrNetwork ErrCode = "NETWORK_ERROR"
	ErrDecode  ErrCode = "DECODE_ERROR"

	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrUnauthorized       ErrCode = "UNAUTHORIZED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Server ────────────────────────────────────────────────────────
	ErrRequestFailed ErrCode = "REQUEST_FAILED"
	ErrServer        ErrCode = "SERVER_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrNetwork:
		return "Network error. Please try again."
	case ErrDecode:
		return "The server sent a response that could not be read."
	case ErrInvalidCredentials:
		return "Invalid credentials."
	case ErrUnauthorized:
		return "Your session has ended. Please log in again."
	case ErrForbidden:
		return "You do not have permission to do this."
	case ErrValidation:
		return "Some values are invalid. Please check your input."
	case ErrNotFound:
		return "The requested item was not found."
	case ErrConflict:
		return "The request conflicts with the current state."
	case ErrRequestFailed:
		return "The request was rejected by the server."
	case ErrServer:
		return "The server ran into an error."
	default:
		return "An unexpected error occurred."
	}
}

// Error is the normalized form of every failed backend call.
type Error struct {
	Code    ErrCode
	Status  int
	Op      string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GetMessage(e.Code)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (%d %s)", e.Op, msg, e.Status, e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, msg, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown to the student in an alert.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GetMessage(e.Code)
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code ErrCode) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// codeForStatus maps an HTTP status to an error code.
func codeForStatus(status int) ErrCode {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrServer
	default:
		return ErrRequestFailed
	}
}
