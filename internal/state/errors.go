package state

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrAlreadyFriends    = fmt.Errorf("already friends: %w", ErrDuplicate)
	ErrSelfReference     = errors.New("cannot add yourself as a friend")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrAuthInProgress    = errors.New("authentication already in progress")
	ErrNotAuthenticated  = errors.New("not signed in")
	ErrSessionExpired    = errors.New("session expired")
	ErrNothingToClear    = errors.New("no completed items to clear")
	ErrPersistence       = errors.New("persistence failed")
)

// PersistenceError reports a durable write that failed after the local state
// had already changed. The change has been rolled back by the time it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersistence, e.Err)
}

// Unwrap matches both ErrPersistence and the backend's own error.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

func validation(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
