package corpus

// storeSnapshot is the persisted form shared by both stores. Entries are
// listed in insertion order; Prev, Next, Head and Tail are only written by
// the linked strategy.
type storeSnapshot[T any] struct {
	NextID  ID                 `json:"next_id"`
	Head    *ID                `json:"head,omitempty"`
	Tail    *ID                `json:"tail,omitempty"`
	Entries []snapshotEntry[T] `json:"entries"`
}

type snapshotEntry[T any] struct {
	ID      ID  `json:"id"`
	Prev    *ID `json:"prev,omitempty"`
	Next    *ID `json:"next,omitempty"`
	Payload T   `json:"payload"`
}
