package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/raisama21/ims/internal/model"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failure")
	ErrAdminDelete = errors.New("admin users cannot be deleted")
	ErrBadLogin    = errors.New("invalid credentials")
)

// ValidationError carries one message per offending input field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports a unique constraint hit on Field
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Field + " already exists"
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// translate maps a gorm error onto the store taxonomy. uniqueField names
// the input field reported when a unique constraint fires.
func translate(op, uniqueField string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isUniqueViolation(err):
		return &ConflictError{Field: uniqueField}
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
}

// passthrough leaves already classified errors alone and translates the rest
func passthrough(op, uniqueField string, err error) error {
	if err == nil || classified(err) {
		return err
	}
	return translate(op, uniqueField, err)
}

func classified(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrConflict, ErrValidation, ErrPersistence, ErrAdminDelete, ErrBadLogin,
		model.ErrInvalidTransition, model.ErrUnknownTrackingStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
