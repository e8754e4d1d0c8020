package corpus

import (
	"errors"
	"fmt"
)

var (
	ErrKeyNotFound     = errors.New("key not found")
	ErrEntryBorrowed   = errors.New("entry is already borrowed")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// KeyNotFoundError is returned by Get and Replace when the id does not name a
// live entry. It matches ErrKeyNotFound with errors.Is.
type KeyNotFoundError struct {
	ID ID
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("index %s not found", e.ID)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

func corrupt(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, a...))
}
