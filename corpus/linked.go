package corpus

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-json-experiment/json"
)

type linkedNode[T any] struct {
	entry *Entry[T]
	prev  *ID
	next  *ID
}

// LinkedStore is the Linked-Index strategy: an id-keyed map where every node
// carries the ids of its neighbours in insertion order, plus head and tail.
// Neighbour ids are resolved through the map on every step; the *ID values
// are never written through, so nodes may share them.
type LinkedStore[T any] struct {
	nodes map[ID]*linkedNode[T]
	ids   allocator
	head  *ID
	tail  *ID
}

func NewLinkedStore[T any]() *LinkedStore[T] {
	return &LinkedStore[T]{
		nodes: map[ID]*linkedNode[T]{},
	}
}

func (s *LinkedStore[T]) Insert(payload T) ID {
	id := s.ids.Next()

	node := &linkedNode[T]{
		entry: newEntry(payload),
		prev:  s.tail,
	}
	if s.tail != nil {
		s.nodes[*s.tail].next = ptr(id)
	} else {
		s.head = ptr(id)
	}
	s.tail = ptr(id)
	s.nodes[id] = node

	return id
}

func (s *LinkedStore[T]) Remove(id ID) (*Entry[T], bool) {
	node, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	delete(s.nodes, id)

	switch {
	case node.prev == nil && node.next == nil: // sole entry
		s.head = nil
		s.tail = nil
	case node.prev == nil: // head
		s.nodes[*node.next].prev = nil
		s.head = node.next
	case node.next == nil: // tail
		s.nodes[*node.prev].next = nil
		s.tail = node.prev
	default:
		s.nodes[*node.prev].next = node.next
		s.nodes[*node.next].prev = node.prev
	}

	return node.entry, true
}

func (s *LinkedStore[T]) Get(id ID) (*Entry[T], bool) {
	node, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return node.entry, true
}

func (s *LinkedStore[T]) First() (ID, bool) {
	return deref(s.head)
}

func (s *LinkedStore[T]) Last() (ID, bool) {
	return deref(s.tail)
}

func (s *LinkedStore[T]) Next(id ID) (ID, bool) {
	node, ok := s.nodes[id]
	if !ok {
		return 0, false
	}
	return deref(node.next)
}

func (s *LinkedStore[T]) Prev(id ID) (ID, bool) {
	node, ok := s.nodes[id]
	if !ok {
		return 0, false
	}
	return deref(node.prev)
}

func (s *LinkedStore[T]) Count() int {
	return len(s.nodes)
}

func (s *LinkedStore[T]) NextID() ID {
	return s.ids.next
}

func (s *LinkedStore[T]) Strategy() Strategy {
	return StrategyLinked
}

func (s *LinkedStore[T]) MarshalJSON() ([]byte, error) {
	snapshot := &storeSnapshot[T]{
		NextID:  s.ids.next,
		Head:    s.head,
		Tail:    s.tail,
		Entries: make([]snapshotEntry[T], 0, len(s.nodes)),
	}
	for cursor := s.head; cursor != nil; cursor = s.nodes[*cursor].next {
		node := s.nodes[*cursor]
		snapshot.Entries = append(snapshot.Entries, snapshotEntry[T]{
			ID:      *cursor,
			Prev:    node.prev,
			Next:    node.next,
			Payload: node.entry.payload,
		})
	}

	return json.Marshal(snapshot)
}

// UnmarshalJSON replaces the content of the store with a snapshot. The
// snapshot is rejected with ErrCorruptSnapshot unless every link invariant
// holds; the store is left untouched in that case.
func (s *LinkedStore[T]) UnmarshalJSON(data []byte) error {
	snapshot := &storeSnapshot[T]{}
	err := json.Unmarshal(data, snapshot)
	if err != nil {
		return fmt.Errorf("decode linked store: %w", err)
	}

	if snapshot.Head == nil && snapshot.Tail == nil && !hasLinks(snapshot.Entries) {
		relink(snapshot)
	}

	ids := allocator{next: snapshot.NextID}
	nodes := make(map[ID]*linkedNode[T], len(snapshot.Entries))
	for _, e := range snapshot.Entries {
		if _, exists := nodes[e.ID]; exists {
			return corrupt("duplicated id %s", e.ID)
		}
		nodes[e.ID] = &linkedNode[T]{
			entry: newEntry(e.Payload),
			prev:  e.Prev,
			next:  e.Next,
		}
		ids.Reserve(e.ID)
	}

	err = checkLinks(nodes, snapshot.Head, snapshot.Tail)
	if err != nil {
		return err
	}

	s.nodes = nodes
	s.ids = ids
	s.head = snapshot.Head
	s.tail = snapshot.Tail

	return nil
}

func hasLinks[T any](entries []snapshotEntry[T]) bool {
	for _, e := range entries {
		if e.Prev != nil || e.Next != nil {
			return true
		}
	}
	return false
}

// relink chains a snapshot without links (as written by a sorted store) in
// id order.
func relink[T any](snapshot *storeSnapshot[T]) {
	entries := snapshot.Entries
	if len(entries) == 0 {
		return
	}

	slices.SortFunc(entries, func(a, b snapshotEntry[T]) int {
		return cmp.Compare(a.ID, b.ID)
	})
	for i := range entries {
		if i > 0 {
			entries[i].Prev = ptr(entries[i-1].ID)
		}
		if i < len(entries)-1 {
			entries[i].Next = ptr(entries[i+1].ID)
		}
	}

	snapshot.Head = ptr(entries[0].ID)
	snapshot.Tail = ptr(entries[len(entries)-1].ID)
}

func checkLinks[T any](nodes map[ID]*linkedNode[T], head, tail *ID) error {

	if len(nodes) == 0 {
		if head != nil || tail != nil {
			return corrupt("empty store with head or tail")
		}
		return nil
	}

	if head == nil || tail == nil {
		return corrupt("missing head or tail")
	}

	for id, node := range nodes {
		if node.next != nil {
			next, exists := nodes[*node.next]
			if !exists {
				return corrupt("entry %s: unknown next %s", id, *node.next)
			}
			if next.prev == nil || *next.prev != id {
				return corrupt("entry %s: next %s does not link back", id, *node.next)
			}
		}
		if node.prev != nil {
			prev, exists := nodes[*node.prev]
			if !exists {
				return corrupt("entry %s: unknown prev %s", id, *node.prev)
			}
			if prev.next == nil || *prev.next != id {
				return corrupt("entry %s: prev %s does not link back", id, *node.prev)
			}
		}
	}

	if node, exists := nodes[*head]; !exists || node.prev != nil {
		return corrupt("head %s is not a first entry", *head)
	}
	if node, exists := nodes[*tail]; !exists || node.next != nil {
		return corrupt("tail %s is not a last entry", *tail)
	}

	// Ids grow along the path, so the walk cannot loop.
	visited := 0
	last := *head
	for cursor := head; cursor != nil; cursor = nodes[*cursor].next {
		if visited > 0 && *cursor <= last {
			return corrupt("entry %s out of insertion order", *cursor)
		}
		last = *cursor
		visited++
	}
	if visited != len(nodes) {
		return corrupt("%d entries are not reachable from head", len(nodes)-visited)
	}
	if last != *tail {
		return corrupt("path from head ends at %s, not at tail %s", last, *tail)
	}

	return nil
}

func deref(id *ID) (ID, bool) {
	if id == nil {
		return 0, false
	}
	return *id, true
}
