package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/corpusdb/corpus"
)

func TestDatabase(t *testing.T) {

	biff.Alternative("New database", func(a *biff.A) {

		dir := t.TempDir()
		db := NewDatabase(&Config{Dir: dir})
		biff.AssertEqual(db.Config.Strategy, corpus.StrategyLinked)
		biff.AssertEqual(db.GetStatus(), StatusOpening)
		biff.AssertNil(db.Load())
		biff.AssertEqual(db.GetStatus(), StatusOperating)
		biff.AssertEqual(len(db.ListCorpora()), 0)

		a.Alternative("Create with invalid name", func(a *biff.A) {
			for _, name := range []string{"", "-a", "a/b", "../x", "a.b"} {
				_, err := db.CreateCorpus(name, "")
				biff.AssertTrue(errors.Is(err, ErrInvalidName))
			}
		})

		a.Alternative("Create with unknown strategy", func(a *biff.A) {
			_, err := db.CreateCorpus("things", "skiplist")
			biff.AssertTrue(errors.Is(err, corpus.ErrUnknownStrategy))
		})

		a.Alternative("Get missing corpus", func(a *biff.A) {
			_, err := db.GetCorpus("nope")
			biff.AssertEqual(err, ErrCorpusNotFound)
			biff.AssertEqual(db.DropCorpus("nope"), ErrCorpusNotFound)
		})

		a.Alternative("Create corpora", func(a *biff.A) {
			beta, err := db.CreateCorpus("beta", corpus.StrategySorted)
			biff.AssertNil(err)
			biff.AssertEqual(beta.Strategy(), corpus.StrategySorted)

			alpha, err := db.CreateCorpus("alpha", "")
			biff.AssertNil(err)
			biff.AssertEqual(alpha.Strategy(), corpus.StrategyLinked)

			names := []string{}
			for _, c := range db.ListCorpora() {
				names = append(names, c.Name)
			}
			biff.AssertEqual(names, []string{"alpha", "beta"})

			a.Alternative("Create twice", func(a *biff.A) {
				_, err := db.CreateCorpus("alpha", "")
				biff.AssertEqual(err, ErrCorpusAlreadyExists)
			})

			a.Alternative("Drop", func(a *biff.A) {
				biff.AssertNil(db.DropCorpus("alpha"))
				_, err := db.GetCorpus("alpha")
				biff.AssertEqual(err, ErrCorpusNotFound)
			})

			a.Alternative("Drop fails", func(a *biff.A) {
				err := os.MkdirAll(path.Join(dir, "alpha.snapshot", "keep"), 0777)
				biff.AssertNil(err)

				biff.AssertNotNil(db.DropCorpus("alpha"))

				found, err := db.GetCorpus("alpha")
				biff.AssertNil(err)
				biff.AssertEqual(found, alpha)
				_, err = alpha.Add(json.RawMessage(`{"name":"still here"}`))
				biff.AssertNil(err)
				biff.AssertEqual(len(db.ListCorpora()), 2)
			})

			a.Alternative("Stop and load again", func(a *biff.A) {
				alpha.Add(json.RawMessage(`{"name":"a0"}`))
				alpha.Add(json.RawMessage(`{"name":"a1"}`))
				beta.Add(json.RawMessage(`{"name":"b0"}`))
				beta.SetCurrent(0)

				biff.AssertNil(db.Stop())
				biff.AssertEqual(db.GetStatus(), StatusClosing)

				db2 := NewDatabase(&Config{Dir: dir})
				biff.AssertNil(db2.Load())
				biff.AssertEqual(len(db2.ListCorpora()), 2)

				alpha2, err := db2.GetCorpus("alpha")
				biff.AssertNil(err)
				biff.AssertEqual(alpha2.Count(), 2)

				beta2, err := db2.GetCorpus("beta")
				biff.AssertNil(err)
				biff.AssertEqual(beta2.Strategy(), corpus.StrategySorted)
				document, err := beta2.Get(0)
				biff.AssertNil(err)
				biff.AssertEqual(string(document), `{"name":"b0"}`)
				current, set, _ := beta2.Current()
				biff.AssertEqual(current, corpus.ID(0))
				biff.AssertTrue(set)
			})
		})
	})
}

func TestDatabase_LoadMany(t *testing.T) {

	dir := t.TempDir()
	db := NewDatabase(&Config{Dir: dir, CheckpointEvery: 5})
	biff.AssertNil(db.Load())

	for i := 0; i < 20; i++ {
		c, err := db.CreateCorpus(fmt.Sprintf("corpus-%02d", i), "")
		biff.AssertNil(err)
		for j := 0; j <= i; j++ {
			_, err := c.Add(json.RawMessage(fmt.Sprintf(`{"n":%d}`, j)))
			biff.AssertNil(err)
		}
	}
	biff.AssertNil(db.Stop())

	db2 := NewDatabase(&Config{Dir: dir})
	biff.AssertNil(db2.Load())

	corpora := db2.ListCorpora()
	biff.AssertEqual(len(corpora), 20)
	for i, c := range corpora {
		biff.AssertEqual(c.Name, fmt.Sprintf("corpus-%02d", i))
		biff.AssertEqual(c.Count(), i+1)
	}
}

// A checkpoint that wrote its snapshot but never truncated the journal leaves
// commands on disk that the snapshot already holds.
func TestDatabase_LoadAfterInterruptedCheckpoint(t *testing.T) {
	for _, strategy := range []corpus.Strategy{corpus.StrategyLinked, corpus.StrategySorted} {
		t.Run(string(strategy), func(t *testing.T) {

			dir := t.TempDir()
			db := NewDatabase(&Config{Dir: dir})
			biff.AssertNil(db.Load())

			c, err := db.CreateCorpus("notes", strategy)
			biff.AssertNil(err)
			c.Add(json.RawMessage(`{"n":0}`))
			c.Add(json.RawMessage(`{"n":1}`))
			c.Add(json.RawMessage(`{"n":2}`))
			c.Replace(1, json.RawMessage(`{"n":11}`))
			c.SetField(2, "big", json.RawMessage(`9007199254740993`))
			c.Remove(0)
			biff.AssertNil(c.SetCurrent(2))

			biff.AssertNil(c.writeSnapshot())
			c.Add(json.RawMessage(`{"n":3}`))
			c.journal.Close()

			db2 := NewDatabase(&Config{Dir: dir})
			biff.AssertNil(db2.Load())
			biff.AssertEqual(db2.GetStatus(), StatusOperating)

			c2, err := db2.GetCorpus("notes")
			biff.AssertNil(err)
			biff.AssertEqual(documents(c2, &TraverseOptions{}), []string{
				`{"n":11}`, `{"n":2,"big":9007199254740993}`, `{"n":3}`,
			})
			biff.AssertEqual(c2.NextID(), corpus.ID(4))
			document, err := c2.Get(2)
			biff.AssertNil(err)
			biff.AssertEqual(string(document), `{"n":2,"big":9007199254740993}`)
			current, set, live := c2.Current()
			biff.AssertEqual(current, corpus.ID(2))
			biff.AssertTrue(set)
			biff.AssertTrue(live)

			id, err := c2.Add(json.RawMessage(`{"n":4}`))
			biff.AssertNil(err)
			biff.AssertEqual(id, corpus.ID(4))
			biff.AssertNil(db2.Stop())

			db3 := NewDatabase(&Config{Dir: dir})
			biff.AssertNil(db3.Load())
			c3, err := db3.GetCorpus("notes")
			biff.AssertNil(err)
			biff.AssertEqual(c3.Count(), 4)
			biff.AssertEqual(c3.NextID(), corpus.ID(5))
		})
	}
}
