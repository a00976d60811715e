package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError reports a missing or malformed field, or a value outside of its enumeration.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		msgs := make([]string, 0, len(err.Fields))
		for _, fe := range err.Fields {
			msgs = append(msgs, fe.Field+": "+fe.Error)
		}
		return "validation failed: " + strings.Join(msgs, "; ")
	}
	return "validation failed"
}

func (err ValidationError) Unwrap() error { return err.Err }

// NotFoundError is returned when an operation targets a nonexistent id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFoundError(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (err NotFoundError) Error() string {
	if err.ID == 0 {
		return err.Entity + " not found"
	}
	return fmt.Sprintf("%s %d not found", err.Entity, err.ID)
}

// ReferentialIntegrityError is returned when a foreign key target is missing,
// or when a delete is blocked by a dependent row that does not cascade.
type ReferentialIntegrityError struct {
	Entity    string
	Field     string
	RefEntity string
	RefID     int64
	Err       error
}

func (err ReferentialIntegrityError) Error() string {
	switch {
	case err.Field != "" && err.RefID != 0:
		return fmt.Sprintf("%s.%s: %s %d does not exist", err.Entity, err.Field, err.RefEntity, err.RefID)
	case err.Field != "":
		return fmt.Sprintf("%s.%s: referential integrity violated", err.Entity, err.Field)
	case err.Err != nil:
		return fmt.Sprintf("%s: %v", err.Entity, err.Err)
	}
	return err.Entity + ": referential integrity violated"
}

func (err ReferentialIntegrityError) Unwrap() error { return err.Err }

// UniquenessConflictError is returned when a write duplicates a unique field or tuple.
type UniquenessConflictError struct {
	Entity     string
	Constraint string
	Fields     []string
	Err        error
}

func (err UniquenessConflictError) Error() string {
	if len(err.Fields) > 0 {
		return fmt.Sprintf("a %s with this %s already exists", err.Entity, strings.Join(err.Fields, ", "))
	}
	return fmt.Sprintf("a %s with these values already exists", err.Entity)
}

func (err UniquenessConflictError) Unwrap() error { return err.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsReferentialIntegrity(err error) bool {
	var target *ReferentialIntegrityError
	return errors.As(err, &target)
}

func IsUniquenessConflict(err error) bool {
	var target *UniquenessConflictError
	return errors.As(err, &target)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
