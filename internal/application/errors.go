package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

var (
	// ErrNotFound is returned for lookups that match nothing.
	ErrNotFound = fmt.Errorf("resource %w", repository.ErrNotFound)

	// ErrUnableToLogin covers both an unknown email and a wrong password.
	ErrUnableToLogin = &AuthError{Message: "Unable to login"}
	// ErrUnauthenticated is the single failure the session guard reports.
	ErrUnauthenticated = &AuthError{Message: "Please authenticate"}
)

// ValidationError lists every rule a user record violated, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// AuthError is a login or session failure. Message is safe to show clients.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// RejectError is an avatar upload that was refused; Reason goes back to the client.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string { return e.Reason }

// StorageError wraps an unexpected persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// storageErr maps repository failures onto the application taxonomy.
func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return &ValidationError{Fields: map[string]string{"email": "is already registered"}}
	default:
		return &StorageError{Op: op, Err: err}
	}
}
