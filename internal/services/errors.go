package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Siddharth20050904/inventory-management/internal/repository"
)

// ValidationError rejects a request before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced product, customer or order that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// PersistenceError wraps a failed store write or read.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// CompensationError means a rollback step itself failed. Stock may no longer match the
// committed orders and needs manual reconciliation.
type CompensationError struct {
	Op       string
	Cause    error
	Failures []error
}

func (e *CompensationError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%s failed (%v) and rollback was incomplete: %s", e.Op, e.Cause, strings.Join(msgs, "; "))
}

func (e *CompensationError) Unwrap() error { return e.Cause }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// storeError maps a repository error onto the service taxonomy.
func storeError(op, entity string, id uint, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return &PersistenceError{Op: op, Err: err}
}
