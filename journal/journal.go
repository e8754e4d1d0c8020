// Package journal persists a corpus as a zstd snapshot plus an append-only
// log of JSON commands written since that snapshot.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("journal closed")

type Command struct {
	Seq       uint64          `json:"seq"`
	Name      string          `json:"name"`
	Uuid      string          `json:"uuid"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Journal is an append-only file of commands, one JSON document per line.
type Journal struct {
	Filename string
	file     *os.File
	buffer   *bufio.Writer
	mutex    sync.Mutex
	appended int
	seq      uint64
}

func Open(filename string) (*Journal, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open journal for write: %w", err)
	}

	return &Journal{
		Filename: filename,
		file:     file,
		buffer:   bufio.NewWriterSize(file, 64*1024),
	}, nil
}

// Append encodes payload into a new command and writes it through to the
// operating system before returning.
func (j *Journal) Append(name string, payload any) (*Command, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json encode payload: %w", err)
	}

	command := &Command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   data,
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	if j.file == nil {
		return nil, ErrClosed
	}

	command.Seq = j.seq + 1
	err = json.NewEncoder(j.buffer).Encode(command)
	if err != nil {
		return nil, fmt.Errorf("json encode command: %w", err)
	}
	err = j.buffer.Flush()
	if err != nil {
		return nil, fmt.Errorf("flush journal: %w", err)
	}
	j.appended++
	j.seq = command.Seq

	return command, nil
}

// Seq is the sequence number of the last command written or replayed. It
// keeps growing across Truncate.
func (j *Journal) Seq() uint64 {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.seq
}

// Appended counts the commands written since Open or the last Truncate.
func (j *Journal) Appended() int {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.appended
}

// Replay calls f for every command in the file, in write order, skipping the
// ones with a sequence number up to after (already in the snapshot). A torn
// last line (a crash in the middle of a write) ends the replay without error.
// Appends continue numbering from the highest sequence seen.
func (j *Journal) Replay(after uint64, f func(command *Command) error) error {
	j.mutex.Lock()
	if j.seq < after {
		j.seq = after
	}
	j.mutex.Unlock()

	file, err := os.Open(j.Filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open journal for read: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(bufio.NewReaderSize(file, 1024*1024))
	for n := 0; ; n++ {
		command := &Command{}
		err := decoder.Decode(command)
		if err == io.EOF {
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			log.Printf("WARNING: journal '%s': command %d is truncated, ignored\n", j.Filename, n)
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode command %d: %w", n, err)
		}

		j.mutex.Lock()
		if command.Seq > j.seq {
			j.seq = command.Seq
		}
		j.mutex.Unlock()

		if after > 0 && command.Seq <= after {
			continue
		}

		err = f(command)
		if err != nil {
			return fmt.Errorf("apply command %d '%s': %w", n, command.Name, err)
		}
	}
}

// Truncate drops every command. Used right after a snapshot was written.
func (j *Journal) Truncate() error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if j.file == nil {
		return ErrClosed
	}

	err := j.buffer.Flush()
	if err != nil {
		return err
	}
	err = j.file.Truncate(0)
	if err != nil {
		return fmt.Errorf("truncate journal: %w", err)
	}
	j.appended = 0

	return nil
}

func (j *Journal) Close() error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if j.file == nil {
		return nil
	}

	err := j.buffer.Flush()
	if err != nil {
		return err
	}
	err = j.file.Close()
	j.file = nil
	return err
}
