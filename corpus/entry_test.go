package corpus

import (
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

type testcase struct {
	Input      string `json:"input"`
	Executions int    `json:"executions"`
}

func TestEntry_Update(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, strategy Strategy) {

		c, _ := NewWithStrategy[testcase](strategy)
		id := c.Add(testcase{Input: "abc"})

		reader, err := c.Get(id)
		biff.AssertNil(err)

		writer, err := c.Get(id)
		biff.AssertNil(err)

		err = writer.Update(func(tc *testcase) error {
			tc.Executions++
			return nil
		})
		biff.AssertNil(err)
		biff.AssertEqual(reader.Payload().Executions, 1)
		biff.AssertEqual(walk(c), []ID{id})
	})
}

func TestEntry_UpdateIsExclusive(t *testing.T) {

	c, _ := NewWithStrategy[testcase](StrategyLinked)
	id := c.Add(testcase{Input: "abc"})
	entry, _ := c.Get(id)

	var nested, replaced error
	err := entry.Update(func(tc *testcase) error {
		nested = entry.Update(func(tc *testcase) error {
			return nil
		})
		_, replaced = c.Replace(id, testcase{Input: "xyz"})
		return nil
	})

	biff.AssertNil(err)
	biff.AssertTrue(errors.Is(nested, ErrEntryBorrowed))
	biff.AssertTrue(errors.Is(replaced, ErrEntryBorrowed))
	biff.AssertEqual(entry.Payload().Input, "abc")

	// released once the scope is closed
	old, err := c.Replace(id, testcase{Input: "xyz"})
	biff.AssertNil(err)
	biff.AssertEqual(old.Input, "abc")
}

func TestEntry_UpdateReleasedOnError(t *testing.T) {

	entry := newEntry(testcase{})
	failure := errors.New("failure")

	err := entry.Update(func(tc *testcase) error {
		tc.Executions = 10
		return failure
	})
	biff.AssertEqual(err, failure)

	func() {
		defer func() {
			recover()
		}()
		entry.Update(func(tc *testcase) error {
			panic("boom")
		})
	}()

	err = entry.Update(func(tc *testcase) error {
		tc.Executions++
		return nil
	})
	biff.AssertNil(err)
	biff.AssertEqual(entry.Payload().Executions, 11)
}
