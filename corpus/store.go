package corpus

// Store owns the entries of a corpus and answers the id and order queries.
// Missing ids are reported with a false second value, never with an error.
//
// Both implementations keep the same contract; a Store is chosen once, at
// construction, with NewStore.
type Store[T any] interface {
	// Insert appends payload as the new last entry and returns its fresh id.
	Insert(payload T) ID
	// Remove deletes id and returns the removed entry.
	Remove(id ID) (*Entry[T], bool)
	Get(id ID) (*Entry[T], bool)

	First() (ID, bool)
	Last() (ID, bool)
	// Next and Prev report false when id is the last/first entry or when id
	// is not in the store.
	Next(id ID) (ID, bool)
	Prev(id ID) (ID, bool)

	Count() int
	// NextID is the id the following Insert will issue.
	NextID() ID
	Strategy() Strategy

	MarshalJSON() ([]byte, error)
	UnmarshalJSON(data []byte) error
}
