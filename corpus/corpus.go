// Package corpus is an ordered, indexed entry store: entries get an immutable,
// increasing ID on insertion and can be walked in insertion order (First,
// Last, Next, Prev) or reached directly by ID. A Corpus adds a single
// "current" cursor on top of a Store.
//
// A Corpus is not safe for concurrent use; callers sharing one across
// goroutines must synchronize access themselves.
package corpus

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type Corpus[T any] struct {
	store   Store[T]
	current *ID
}

func New[T any](store Store[T]) *Corpus[T] {
	return &Corpus[T]{
		store: store,
	}
}

func NewWithStrategy[T any](strategy Strategy) (*Corpus[T], error) {
	store, err := NewStore[T](strategy)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

func (c *Corpus[T]) Strategy() Strategy {
	return c.store.Strategy()
}

func (c *Corpus[T]) Count() int {
	return c.store.Count()
}

// Add stores record as the last entry and returns its id.
func (c *Corpus[T]) Add(record T) ID {
	return c.store.Insert(record)
}

// Replace swaps the payload of id in place and returns the previous one.
// Position and neighbours do not change.
func (c *Corpus[T]) Replace(id ID, record T) (T, error) {
	entry, ok := c.store.Get(id)
	if !ok {
		var zero T
		return zero, &KeyNotFoundError{ID: id}
	}
	return entry.Swap(record)
}

// Remove deletes id and returns its payload. Removing an id that is not
// there is not an error: the second value is false.
//
// The cursor is left alone even if it pointed to id.
func (c *Corpus[T]) Remove(id ID) (T, bool) {
	entry, ok := c.store.Remove(id)
	if !ok {
		var zero T
		return zero, false
	}
	return entry.payload, true
}

func (c *Corpus[T]) Get(id ID) (*Entry[T], error) {
	entry, ok := c.store.Get(id)
	if !ok {
		return nil, &KeyNotFoundError{ID: id}
	}
	return entry, nil
}

// Current is the cursor last set with SetCurrent. It is not validated: the
// entry may have been removed since, check with Get before using it.
func (c *Corpus[T]) Current() (ID, bool) {
	return deref(c.current)
}

func (c *Corpus[T]) SetCurrent(id ID) {
	c.current = ptr(id)
}

func (c *Corpus[T]) ClearCurrent() {
	c.current = nil
}

func (c *Corpus[T]) First() (ID, bool) {
	return c.store.First()
}

func (c *Corpus[T]) Last() (ID, bool) {
	return c.store.Last()
}

func (c *Corpus[T]) Next(id ID) (ID, bool) {
	return c.store.Next(id)
}

func (c *Corpus[T]) Prev(id ID) (ID, bool) {
	return c.store.Prev(id)
}

// NextID is the id the next Add will return.
func (c *Corpus[T]) NextID() ID {
	return c.store.NextID()
}

type corpusSnapshot struct {
	Strategy Strategy       `json:"strategy"`
	Current  *ID            `json:"current,omitempty"`
	Store    jsontext.Value `json:"store"`
}

func (c *Corpus[T]) MarshalJSON() ([]byte, error) {
	store, err := c.store.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}

	return json.Marshal(&corpusSnapshot{
		Strategy: c.store.Strategy(),
		Current:  c.current,
		Store:    store,
	})
}

// UnmarshalJSON rebuilds the corpus with the strategy recorded in the
// snapshot.
func (c *Corpus[T]) UnmarshalJSON(data []byte) error {
	snapshot := &corpusSnapshot{}
	err := json.Unmarshal(data, snapshot)
	if err != nil {
		return fmt.Errorf("decode corpus: %w", err)
	}

	strategy := snapshot.Strategy
	if strategy == "" {
		strategy = DefaultStrategy
	}
	store, err := NewStore[T](strategy)
	if err != nil {
		return err
	}
	if len(snapshot.Store) > 0 {
		err = store.UnmarshalJSON(snapshot.Store)
		if err != nil {
			return err
		}
	}

	c.store = store
	c.current = snapshot.Current

	return nil
}
