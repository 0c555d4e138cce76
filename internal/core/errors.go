package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidAmount    = errors.New("amount is not a number")
	ErrAmountTooLarge   = errors.New("amount exceeds 1,000,000,000,000")
	ErrEmptyMethod      = errors.New("empty payment method")
	ErrUnselectedMethod = errors.New("payment method not selected")
	ErrInvalidMonth     = errors.New("invalid month")
)

// ValidationError reports a candidate record (or user input) that violates a
// field constraint. The append it belongs to is refused entirely.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CorruptStateError is returned at load time when persisted state exists but
// cannot be parsed. It is never replaced by an empty ledger.
type CorruptStateError struct {
	Source string
	Err    error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt ledger state in %s: %v", e.Source, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// PersistenceError means a durable write failed. The in-memory ledger keeps
// the attempted change, but it will be lost on the next reload.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist ledger (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsCorruptState reports whether err carries a *CorruptStateError.
func IsCorruptState(err error) bool {
	var ce *CorruptStateError
	return errors.As(err, &ce)
}

// IsPersistence reports whether err carries a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
