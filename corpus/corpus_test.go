package corpus

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/fulldump/biff"
)

var strategies = []Strategy{StrategyLinked, StrategySorted}

func forEachStrategy(t *testing.T, f func(t *testing.T, strategy Strategy)) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			f(t, strategy)
		})
	}
}

// walk follows Next from First.
func walk[T any](c *Corpus[T]) []ID {
	ids := []ID{}
	for id, ok := c.First(); ok; id, ok = c.Next(id) {
		ids = append(ids, id)
	}
	return ids
}

// walkBack follows Prev from Last.
func walkBack[T any](c *Corpus[T]) []ID {
	ids := []ID{}
	for id, ok := c.Last(); ok; id, ok = c.Prev(id) {
		ids = append(ids, id)
	}
	return ids
}

func reversed(ids []ID) []ID {
	result := make([]ID, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		result = append(result, ids[i])
	}
	return result
}

func TestCorpus_Scenarios(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, strategy Strategy) {

		biff.Alternative("Empty corpus", func(a *biff.A) {

			c, err := NewWithStrategy[string](strategy)
			biff.AssertNil(err)
			biff.AssertEqual(c.Strategy(), strategy)
			biff.AssertEqual(c.Count(), 0)

			_, hasFirst := c.First()
			_, hasLast := c.Last()
			biff.AssertFalse(hasFirst)
			biff.AssertFalse(hasLast)

			a.Alternative("Add one", func(a *biff.A) {
				biff.AssertEqual(c.Add("X"), ID(0))

				first, _ := c.First()
				last, _ := c.Last()
				biff.AssertEqual(first, ID(0))
				biff.AssertEqual(last, ID(0))

				a.Alternative("Remove sole entry", func(a *biff.A) {
					payload, removed := c.Remove(0)
					biff.AssertTrue(removed)
					biff.AssertEqual(payload, "X")

					_, hasFirst := c.First()
					_, hasLast := c.Last()
					biff.AssertFalse(hasFirst)
					biff.AssertFalse(hasLast)
					biff.AssertEqual(c.Count(), 0)

					a.Alternative("Ids are not reused", func(a *biff.A) {
						biff.AssertEqual(c.Add("Y"), ID(1))
					})
				})
			})

			a.Alternative("Add A B C", func(a *biff.A) {
				biff.AssertEqual(c.Add("A"), ID(0))
				biff.AssertEqual(c.Add("B"), ID(1))
				biff.AssertEqual(c.Add("C"), ID(2))

				first, _ := c.First()
				last, _ := c.Last()
				biff.AssertEqual(first, ID(0))
				biff.AssertEqual(last, ID(2))
				biff.AssertEqual(walk(c), []ID{0, 1, 2})
				biff.AssertEqual(walkBack(c), []ID{2, 1, 0})

				_, hasNext := c.Next(2)
				biff.AssertFalse(hasNext)
				_, hasPrev := c.Prev(0)
				biff.AssertFalse(hasPrev)

				a.Alternative("Remove interior", func(a *biff.A) {
					payload, removed := c.Remove(1)
					biff.AssertTrue(removed)
					biff.AssertEqual(payload, "B")

					next, _ := c.Next(0)
					prev, _ := c.Prev(2)
					biff.AssertEqual(next, ID(2))
					biff.AssertEqual(prev, ID(0))
					biff.AssertEqual(c.Count(), 2)

					a.Alternative("Get removed", func(a *biff.A) {
						entry, err := c.Get(1)
						biff.AssertNil(entry)
						biff.AssertTrue(errors.Is(err, ErrKeyNotFound))

						notFound := &KeyNotFoundError{}
						biff.AssertTrue(errors.As(err, &notFound))
						biff.AssertEqual(notFound.ID, ID(1))
					})

					a.Alternative("Remove again", func(a *biff.A) {
						_, removed := c.Remove(1)
						biff.AssertFalse(removed)
						biff.AssertEqual(c.Count(), 2)
					})

					a.Alternative("Traverse from removed id", func(a *biff.A) {
						_, hasNext := c.Next(1)
						_, hasPrev := c.Prev(1)
						biff.AssertFalse(hasNext)
						biff.AssertFalse(hasPrev)
					})
				})

				a.Alternative("Remove head", func(a *biff.A) {
					c.Remove(0)
					first, _ := c.First()
					biff.AssertEqual(first, ID(1))
					_, hasPrev := c.Prev(1)
					biff.AssertFalse(hasPrev)
					biff.AssertEqual(walk(c), []ID{1, 2})
				})

				a.Alternative("Remove tail", func(a *biff.A) {
					c.Remove(2)
					last, _ := c.Last()
					biff.AssertEqual(last, ID(1))
					_, hasNext := c.Next(1)
					biff.AssertFalse(hasNext)
					biff.AssertEqual(walkBack(c), []ID{1, 0})
				})

				a.Alternative("Replace", func(a *biff.A) {
					old, err := c.Replace(0, "A'")
					biff.AssertNil(err)
					biff.AssertEqual(old, "A")

					entry, err := c.Get(0)
					biff.AssertNil(err)
					biff.AssertEqual(entry.Payload(), "A'")

					next, _ := c.Next(0)
					biff.AssertEqual(next, ID(1))
					biff.AssertEqual(walk(c), []ID{0, 1, 2})
				})

				a.Alternative("Replace missing", func(a *biff.A) {
					_, err := c.Replace(7, "Z")
					biff.AssertTrue(errors.Is(err, ErrKeyNotFound))
					biff.AssertEqual(c.Count(), 3)
				})

				a.Alternative("Current", func(a *biff.A) {
					_, hasCurrent := c.Current()
					biff.AssertFalse(hasCurrent)

					c.SetCurrent(1)
					current, hasCurrent := c.Current()
					biff.AssertTrue(hasCurrent)
					biff.AssertEqual(current, ID(1))

					a.Alternative("Survives removal", func(a *biff.A) {
						c.Remove(1)
						current, hasCurrent := c.Current()
						biff.AssertTrue(hasCurrent)
						biff.AssertEqual(current, ID(1))

						_, err := c.Get(current)
						biff.AssertTrue(errors.Is(err, ErrKeyNotFound))
					})

					a.Alternative("Clear", func(a *biff.A) {
						c.ClearCurrent()
						_, hasCurrent := c.Current()
						biff.AssertFalse(hasCurrent)
					})
				})
			})
		})
	})
}

func TestCorpus_UnknownStrategy(t *testing.T) {
	c, err := NewWithStrategy[string]("skiplist")
	biff.AssertNil(c)
	biff.AssertTrue(errors.Is(err, ErrUnknownStrategy))
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"":        DefaultStrategy,
		"linked":  StrategyLinked,
		"SORTED":  StrategySorted,
		" sorted": StrategySorted,
	}
	for name, expected := range cases {
		strategy, err := ParseStrategy(name)
		biff.AssertNil(err)
		biff.AssertEqual(strategy, expected)
	}

	_, err := ParseStrategy("hash")
	biff.AssertTrue(errors.Is(err, ErrUnknownStrategy))
}

// TestCorpus_RandomOperations checks every store against a plain slice model
// after each step of a random add/remove/replace sequence.
func TestCorpus_RandomOperations(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, strategy Strategy) {

		c, err := NewWithStrategy[int](strategy)
		biff.AssertNil(err)

		r := rand.New(rand.NewSource(42))
		model := []ID{}
		payloads := map[ID]int{}
		adds, removes := 0, 0

		for step := 0; step < 2000; step++ {
			switch op := r.Intn(10); {
			case op < 5 || len(model) == 0:
				id := c.Add(step)
				if len(model) > 0 && id <= model[len(model)-1] {
					t.Fatalf("id %s not greater than %s", id, model[len(model)-1])
				}
				model = append(model, id)
				payloads[id] = step
				adds++
			case op < 8:
				i := r.Intn(len(model))
				id := model[i]
				payload, removed := c.Remove(id)
				if !removed || payload != payloads[id] {
					t.Fatalf("remove %s: got %d, %v", id, payload, removed)
				}
				model = append(model[:i], model[i+1:]...)
				delete(payloads, id)
				removes++
			case op < 9:
				_, removed := c.Remove(ID(1_000_000 + step))
				if removed {
					t.Fatalf("removed an id that was never issued")
				}
			default:
				id := model[r.Intn(len(model))]
				old, err := c.Replace(id, -step)
				if err != nil || old != payloads[id] {
					t.Fatalf("replace %s: got %d, %v", id, old, err)
				}
				payloads[id] = -step
			}

			if c.Count() != adds-removes {
				t.Fatalf("step %d: count %d, expected %d", step, c.Count(), adds-removes)
			}
		}

		biff.AssertEqual(walk(c), model)
		biff.AssertEqual(walkBack(c), reversed(model))
		for _, id := range model {
			entry, err := c.Get(id)
			biff.AssertNil(err)
			biff.AssertEqual(entry.Payload(), payloads[id])
		}
	})
}
