package journal

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/fulldump/biff"
)

type JSON = map[string]any

func replayAll(j *Journal) ([]*Command, error) {
	return replayAllAfter(j, 0)
}

func replayAllAfter(j *Journal, after uint64) ([]*Command, error) {
	commands := []*Command{}
	err := j.Replay(after, func(command *Command) error {
		commands = append(commands, command)
		return nil
	})
	return commands, err
}

func TestJournal(t *testing.T) {

	biff.Alternative("Journal", func(a *biff.A) {

		filename := path.Join(t.TempDir(), "corpus.journal")
		j, err := Open(filename)
		biff.AssertNil(err)

		a.Alternative("Replay empty", func(a *biff.A) {
			commands, err := replayAll(j)
			biff.AssertNil(err)
			biff.AssertEqual(len(commands), 0)
		})

		a.Alternative("Append", func(a *biff.A) {
			_, err := j.Append("add", JSON{"id": 0})
			biff.AssertNil(err)
			_, err = j.Append("add", JSON{"id": 1})
			biff.AssertNil(err)
			command, err := j.Append("remove", JSON{"id": 0})
			biff.AssertNil(err)
			biff.AssertNotNil(command.Uuid)
			biff.AssertEqual(j.Appended(), 3)

			a.Alternative("Reopen and replay", func(a *biff.A) {
				biff.AssertNil(j.Close())

				j2, err := Open(filename)
				biff.AssertNil(err)
				defer j2.Close()

				commands, err := replayAll(j2)
				biff.AssertNil(err)
				biff.AssertEqual(len(commands), 3)
				biff.AssertEqual(commands[0].Name, "add")
				biff.AssertEqual(commands[2].Name, "remove")
				biff.AssertEqual(string(commands[1].Payload), `{"id":1}`)
				biff.AssertTrue(commands[0].Timestamp <= commands[2].Timestamp)
				biff.AssertEqual(commands[0].Seq, uint64(1))
				biff.AssertEqual(commands[2].Seq, uint64(3))
				biff.AssertEqual(j2.Seq(), uint64(3))
			})

			a.Alternative("Replay after a sequence number", func(a *biff.A) {
				biff.AssertNil(j.Close())

				j2, err := Open(filename)
				biff.AssertNil(err)
				defer j2.Close()

				commands := []*Command{}
				err = j2.Replay(2, func(command *Command) error {
					commands = append(commands, command)
					return nil
				})
				biff.AssertNil(err)
				biff.AssertEqual(len(commands), 1)
				biff.AssertEqual(commands[0].Name, "remove")

				command, err := j2.Append("add", JSON{"id": 2})
				biff.AssertNil(err)
				biff.AssertEqual(command.Seq, uint64(4))
			})

			a.Alternative("Replay after a sequence beyond the file", func(a *biff.A) {
				biff.AssertNil(j.Truncate())
				biff.AssertNil(j.Close())

				j2, err := Open(filename)
				biff.AssertNil(err)
				defer j2.Close()

				commands, err := replayAllAfter(j2, 10)
				biff.AssertNil(err)
				biff.AssertEqual(len(commands), 0)

				command, err := j2.Append("add", JSON{"id": 2})
				biff.AssertNil(err)
				biff.AssertEqual(command.Seq, uint64(11))
			})

			a.Alternative("Truncate", func(a *biff.A) {
				biff.AssertNil(j.Truncate())
				biff.AssertEqual(j.Appended(), 0)
				biff.AssertEqual(j.Seq(), uint64(3))

				commands, err := replayAll(j)
				biff.AssertNil(err)
				biff.AssertEqual(len(commands), 0)

				_, err = j.Append("add", JSON{"id": 2})
				biff.AssertNil(err)
				commands, _ = replayAll(j)
				biff.AssertEqual(len(commands), 1)
			})

			a.Alternative("Torn last line", func(a *biff.A) {
				biff.AssertNil(j.Close())

				f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY, 0666)
				biff.AssertNil(err)
				f.WriteString(`{"name":"add","uuid":"x","payl`)
				f.Close()

				j2, _ := Open(filename)
				defer j2.Close()
				commands, err := replayAll(j2)
				biff.AssertNil(err)
				biff.AssertEqual(len(commands), 3)
			})
		})

		a.Alternative("Append after close", func(a *biff.A) {
			biff.AssertNil(j.Close())
			_, err := j.Append("add", JSON{})
			biff.AssertEqual(err, ErrClosed)
		})

		a.Alternative("Replay stops on apply error", func(a *biff.A) {
			j.Append("add", JSON{"id": 0})
			j.Append("add", JSON{"id": 1})

			applied := 0
			err := j.Replay(0, func(command *Command) error {
				applied++
				return json.Unmarshal([]byte(`{`), &JSON{})
			})
			biff.AssertNotNil(err)
			biff.AssertEqual(applied, 1)
		})
	})
}
