// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Domain errors. Services wrap them with fmt.Errorf("%w: ...") so handlers can
// map them to a status code without string matching.
var (
	ErrNotFound          = errors.New("no encontrado")
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrArgumentoInvalido = errors.New("argumento invalido")
	ErrNoAutorizado      = errors.New("no autorizado")
	ErrProhibido         = errors.New("permisos insuficientes")
	ErrConflicto         = errors.New("conflicto")
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Message: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "Error de validacion", Fields: fields}
}

// Status maps a (possibly wrapped) domain error to its HTTP status.
// Unknown errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStockInsuficiente):
		return http.StatusConflict
	case errors.Is(err, ErrArgumentoInvalido):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoAutorizado):
		return http.StatusUnauthorized
	case errors.Is(err, ErrProhibido):
		return http.StatusForbidden
	case errors.Is(err, ErrConflicto):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// domainError carries a client-facing message while still matching its
// sentinel through errors.Is.
type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

// Wrap returns an error with message msg that matches kind.
func Wrap(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

// Message returns the text safe to show a client. Internal errors are
// replaced with a generic message.
func Message(err error) string {
	if Status(err) >= http.StatusInternalServerError {
		return "Error interno del servidor"
	}
	return err.Error()
}
