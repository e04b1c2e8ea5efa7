package settings

import (
	"errors"
	"fmt"
)

// StoreError reports a failed store operation.
type StoreError struct {
	Op      string // "get", "set", "clear", "list", "open"
	Backend string
	Setting string
	Err     error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Setting != "" {
		return fmt.Sprintf("%s store: %s %q: %v", e.Backend, e.Op, e.Setting, e.Err)
	}
	return fmt.Sprintf("%s store: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(backend, op, setting string, err error) error {
	return &StoreError{Op: op, Backend: backend, Setting: setting, Err: err}
}

// IsNotSet reports whether err means the setting has no value.
func IsNotSet(err error) bool {
	return errors.Is(err, ErrNotSet)
}
