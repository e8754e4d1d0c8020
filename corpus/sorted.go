package corpus

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/google/btree"
)

type sortedItem[T any] struct {
	id    ID
	entry *Entry[T]
}

// SortedStore is the Sorted-Key strategy: entries live in a btree ordered by
// id. Ids are issued in increasing order and never reused, so id order is
// insertion order and entries need no neighbour bookkeeping.
type SortedStore[T any] struct {
	tree *btree.BTreeG[sortedItem[T]]
	ids  allocator
}

func NewSortedStore[T any]() *SortedStore[T] {
	return &SortedStore[T]{
		tree: newSortedTree[T](),
	}
}

func newSortedTree[T any]() *btree.BTreeG[sortedItem[T]] {
	return btree.NewG(32, func(a, b sortedItem[T]) bool {
		return a.id < b.id
	})
}

func (s *SortedStore[T]) Insert(payload T) ID {
	id := s.ids.Next()
	s.tree.ReplaceOrInsert(sortedItem[T]{
		id:    id,
		entry: newEntry(payload),
	})
	return id
}

func (s *SortedStore[T]) Remove(id ID) (*Entry[T], bool) {
	item, ok := s.tree.Delete(sortedItem[T]{id: id})
	if !ok {
		return nil, false
	}
	return item.entry, true
}

func (s *SortedStore[T]) Get(id ID) (*Entry[T], bool) {
	item, ok := s.tree.Get(sortedItem[T]{id: id})
	if !ok {
		return nil, false
	}
	return item.entry, true
}

func (s *SortedStore[T]) First() (ID, bool) {
	item, ok := s.tree.Min()
	return item.id, ok
}

func (s *SortedStore[T]) Last() (ID, bool) {
	item, ok := s.tree.Max()
	return item.id, ok
}

// Next answers with the smallest key greater than id. An id that is not a
// key answers nothing, even when it falls between two keys.
func (s *SortedStore[T]) Next(id ID) (next ID, found bool) {
	pivot := sortedItem[T]{id: id}
	if !s.tree.Has(pivot) {
		return 0, false
	}

	s.tree.AscendGreaterOrEqual(pivot, func(item sortedItem[T]) bool {
		if item.id == id {
			return true
		}
		next, found = item.id, true
		return false
	})

	return
}

// Prev answers with the largest key less than id, see Next.
func (s *SortedStore[T]) Prev(id ID) (prev ID, found bool) {
	pivot := sortedItem[T]{id: id}
	if !s.tree.Has(pivot) {
		return 0, false
	}

	s.tree.DescendLessOrEqual(pivot, func(item sortedItem[T]) bool {
		if item.id == id {
			return true
		}
		prev, found = item.id, true
		return false
	})

	return
}

func (s *SortedStore[T]) Count() int {
	return s.tree.Len()
}

func (s *SortedStore[T]) NextID() ID {
	return s.ids.next
}

func (s *SortedStore[T]) Strategy() Strategy {
	return StrategySorted
}

func (s *SortedStore[T]) MarshalJSON() ([]byte, error) {
	snapshot := &storeSnapshot[T]{
		NextID:  s.ids.next,
		Entries: make([]snapshotEntry[T], 0, s.tree.Len()),
	}
	s.tree.Ascend(func(item sortedItem[T]) bool {
		snapshot.Entries = append(snapshot.Entries, snapshotEntry[T]{
			ID:      item.id,
			Payload: item.entry.payload,
		})
		return true
	})

	return json.Marshal(snapshot)
}

// UnmarshalJSON replaces the content of the store with a snapshot. Link
// fields, if present (a linked store snapshot), are ignored.
func (s *SortedStore[T]) UnmarshalJSON(data []byte) error {
	snapshot := &storeSnapshot[T]{}
	err := json.Unmarshal(data, snapshot)
	if err != nil {
		return fmt.Errorf("decode sorted store: %w", err)
	}

	ids := allocator{next: snapshot.NextID}
	tree := newSortedTree[T]()
	for _, e := range snapshot.Entries {
		_, replaced := tree.ReplaceOrInsert(sortedItem[T]{
			id:    e.ID,
			entry: newEntry(e.Payload),
		})
		if replaced {
			return corrupt("duplicated id %s", e.ID)
		}
		ids.Reserve(e.ID)
	}

	s.tree = tree
	s.ids = ids

	return nil
}
