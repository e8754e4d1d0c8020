package corpus

import "sync"

// Entry holds one payload. Readers share the *Entry handed out by the store;
// writes go through Update, which opens an exclusive scope on this entry only.
//
// Entry does not synchronize Payload against a concurrent Update running on
// another goroutine: stores are single-threaded or externally synchronized.
type Entry[T any] struct {
	payload T
	mutex   sync.Mutex
}

func newEntry[T any](payload T) *Entry[T] {
	return &Entry[T]{
		payload: payload,
	}
}

func (e *Entry[T]) Payload() T {
	return e.payload
}

// Update runs f with exclusive access to the payload. Only one scope may be
// open at a time; a nested or overlapping Update on the same entry fails with
// ErrEntryBorrowed. The scope is released on every exit path, panics included.
func (e *Entry[T]) Update(f func(payload *T) error) error {
	if !e.mutex.TryLock() {
		return ErrEntryBorrowed
	}
	defer e.mutex.Unlock()

	return f(&e.payload)
}

// Swap stores payload and returns the previous one.
func (e *Entry[T]) Swap(payload T) (old T, err error) {
	err = e.Update(func(p *T) error {
		old = *p
		*p = payload
		return nil
	})
	return
}
