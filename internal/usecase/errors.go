package usecase

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeEmailConflict = "EMAIL_CONFLICT"
	CodeNotFound      = "LEAD_NOT_FOUND"
	CodeInvalidID     = "INVALID_ID"
	CodeDatabase      = "DATABASE_ERROR"
	CodeExport        = "EXPORT_ERROR"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors carries every violated field, never just the first.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" ("+fe.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, fe := range e {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

func (e ValidationErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// DomainError is a failure the caller can act on (conflict, not found,
// bad id). Err holds the entity sentinel.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

// TechnicalError wraps infrastructure failures. Its message is never shown
// to clients.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func AsTechnicalError(err error) (*TechnicalError, bool) {
	var te *TechnicalError
	ok := errors.As(err, &te)
	return te, ok
}
