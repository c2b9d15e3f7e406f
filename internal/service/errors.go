package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"backoffice-service/internal/repository"
	"backoffice-service/internal/validation"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrRateLimited        = errors.New("too many failed login attempts, try again later")
	ErrUnauthenticated    = errors.New("invalid or expired session")
	ErrUpstream           = errors.New("external service unavailable")
)

type FieldError = validation.FieldError

// ValidationError reports field-level problems found after binding.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalidField(path, message string) error {
	return &ValidationError{Fields: []FieldError{{Path: path, Message: message}}}
}

// translateStoreError maps storage errors onto service sentinels.
func translateStoreError(err error, action string) error {
	var missing *repository.MissingReferencesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &missing):
		return &ValidationError{Fields: missing.Fields}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: referenced record does not exist", ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
