package corpus

import (
	"fmt"
	"strings"
)

// Strategy selects the Store implementation backing a corpus.
type Strategy string

const (
	// StrategyLinked keeps explicit prev/next ids per entry: O(1) traversal.
	StrategyLinked Strategy = "linked"
	// StrategySorted keeps entries in a btree ordered by id: O(log n)
	// traversal, no per-entry bookkeeping.
	StrategySorted Strategy = "sorted"
)

const DefaultStrategy = StrategyLinked

// ParseStrategy accepts the strategy names case-insensitively. An empty name
// selects DefaultStrategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultStrategy, nil
	case StrategyLinked:
		return StrategyLinked, nil
	case StrategySorted:
		return StrategySorted, nil
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnknownStrategy, name)
}

func NewStore[T any](strategy Strategy) (Store[T], error) {
	switch strategy {
	case StrategyLinked:
		return NewLinkedStore[T](), nil
	case StrategySorted:
		return NewSortedStore[T](), nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrUnknownStrategy, strategy)
}
