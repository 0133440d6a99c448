package services

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/staydesk/staydesk/app/policies"
	"github.com/staydesk/staydesk/app/repositories"
)

var (
	// ErrForbidden is returned when the actor does not own the record.
	ErrForbidden = policies.ErrForbidden
	// ErrNotFound is returned when the record does not exist. It is rendered
	// exactly like ErrForbidden.
	ErrNotFound = repositories.ErrNotFound
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("these credentials do not match our records")
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// invalid builds a ValidationError for one field.
func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// fromModel converts the result of a model Validate into a ValidationError.
func fromModel(err error) error {
	if err == nil {
		return nil
	}
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return fmt.Errorf("services: validate: %w", err)
	}
	fields := make(map[string]string, len(ve))
	for field, fe := range ve {
		fields[field] = fmt.Sprintf("The %s %s.", strings.ReplaceAll(field, "_", " "), fe.Error())
	}
	return &ValidationError{Fields: fields}
}

// StorageError is a blob store failure with the context needed to find the
// blob afterwards.
type StorageError struct {
	Op       string // "put" | "delete"
	Entity   string
	EntityID uint
	UserID   uint
	Key      string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s blob %q: %v", e.Op, e.Entity, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// LogAttrs returns the slog key/value pairs describing the failure.
func (e *StorageError) LogAttrs() []any {
	return []any{
		"op", e.Op,
		"entity", e.Entity,
		"entity_id", e.EntityID,
		"user_id", e.UserID,
		"blob", e.Key,
		"error", e.Err,
	}
}

// errorAttrs returns the log attributes of err, expanding a *StorageError.
func errorAttrs(err error) []any {
	var se *StorageError
	if errors.As(err, &se) {
		return se.LogAttrs()
	}
	return []any{"error", err}
}
