package corpus

import (
	"fmt"
	"strconv"
)

// ID names one entry of a store. IDs issued by a store are strictly
// increasing and never handed out twice, even after removal.
type ID uint64

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id '%s': %w", s, err)
	}
	return ID(n), nil
}

func ptr(id ID) *ID {
	return &id
}

type allocator struct {
	next ID
}

func (a *allocator) Next() ID {
	id := a.next
	a.next++
	return id
}

// Reserve moves the counter past id. It never moves it backwards.
func (a *allocator) Reserve(id ID) {
	if a.next <= id {
		a.next = id + 1
	}
}
