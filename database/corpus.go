package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"sync"

	"github.com/SierraSoftworks/connor"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/journal"
)

const (
	CommandAdd      = "add"
	CommandReplace  = "replace"
	CommandRemove   = "remove"
	CommandSetField = "set_field"
	CommandCurrent  = "current"
)

const (
	journalSuffix  = ".journal"
	snapshotSuffix = ".snapshot"
)

var (
	ErrInvalidDocument = errors.New("document must be a JSON object")
	ErrInvalidValue    = errors.New("field value must be valid JSON")
	ErrJournalMismatch = errors.New("journal does not match corpus state")
)

type entryCommand struct {
	ID       corpus.ID       `json:"id"`
	Document json.RawMessage `json:"document,omitempty"`
}

type setFieldCommand struct {
	ID    corpus.ID       `json:"id"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

type currentCommand struct {
	ID *corpus.ID `json:"id"`
}

// snapshot is what a checkpoint writes: the corpus plus the sequence number
// of the last journal command it includes.
type snapshot struct {
	Seq    uint64                          `json:"seq"`
	Corpus *corpus.Corpus[json.RawMessage] `json:"corpus"`
}

// Corpus is a durable corpus of JSON documents. Every mutation is written to
// the journal before it is applied in memory; a snapshot is taken every
// CheckpointEvery mutations and the journal starts over.
//
// The underlying corpus.Corpus is not synchronized, Corpus guards it with a
// RWMutex.
type Corpus struct {
	Name            string
	dir             string
	corpus          *corpus.Corpus[json.RawMessage]
	journal         *journal.Journal
	mutex           *sync.RWMutex
	checkpointEvery int
}

func OpenCorpus(dir, name string, strategy corpus.Strategy, checkpointEvery int) (*Corpus, error) {

	c, err := corpus.NewWithStrategy[json.RawMessage](strategy)
	if err != nil {
		return nil, err
	}

	col := &Corpus{
		Name:            name,
		dir:             dir,
		corpus:          c,
		mutex:           &sync.RWMutex{},
		checkpointEvery: checkpointEvery,
	}

	state := &snapshot{Corpus: col.corpus}
	_, err = journal.ReadSnapshot(col.snapshotFilename(), state)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if col.corpus.Strategy() != strategy {
		log.Printf("corpus '%s' keeps strategy '%s' from its snapshot\n", name, col.corpus.Strategy())
	}

	col.journal, err = journal.Open(col.journalFilename())
	if err != nil {
		return nil, err
	}

	err = col.journal.Replay(state.Seq, col.apply)
	if err != nil {
		col.journal.Close()
		return nil, fmt.Errorf("replay journal: %w", err)
	}

	return col, nil
}

func (c *Corpus) journalFilename() string {
	return path.Join(c.dir, c.Name+journalSuffix)
}

func (c *Corpus) snapshotFilename() string {
	return path.Join(c.dir, c.Name+snapshotSuffix)
}

func (c *Corpus) apply(command *journal.Command) error {

	switch command.Name {
	case CommandAdd:
		params := &entryCommand{}
		err := json.Unmarshal(command.Payload, params)
		if err != nil {
			return err
		}
		id := c.corpus.Add(params.Document)
		if id != params.ID {
			return fmt.Errorf("%w: add issued %s, journal says %s", ErrJournalMismatch, id, params.ID)
		}
	case CommandReplace:
		params := &entryCommand{}
		err := json.Unmarshal(command.Payload, params)
		if err != nil {
			return err
		}
		_, err = c.corpus.Replace(params.ID, params.Document)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrJournalMismatch, err.Error())
		}
	case CommandRemove:
		params := &entryCommand{}
		err := json.Unmarshal(command.Payload, params)
		if err != nil {
			return err
		}
		c.corpus.Remove(params.ID)
	case CommandSetField:
		params := &setFieldCommand{}
		err := json.Unmarshal(command.Payload, params)
		if err != nil {
			return err
		}
		entry, err := c.corpus.Get(params.ID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrJournalMismatch, err.Error())
		}
		return entry.Update(func(document *json.RawMessage) error {
			updated, err := sjson.SetRawBytes(*document, params.Path, params.Value)
			if err != nil {
				return err
			}
			*document = updated
			return nil
		})
	case CommandCurrent:
		params := &currentCommand{}
		err := json.Unmarshal(command.Payload, params)
		if err != nil {
			return err
		}
		if params.ID == nil {
			c.corpus.ClearCurrent()
		} else {
			c.corpus.SetCurrent(*params.ID)
		}
	default:
		log.Printf("WARNING: corpus '%s': unknown command '%s' ignored\n", c.Name, command.Name)
	}

	return nil
}

// persist journals a mutation before it is applied. Callers hold the write
// lock.
func (c *Corpus) persist(name string, payload any) error {
	_, err := c.journal.Append(name, payload)
	return err
}

// checkpointIfDue runs once the mutation is applied in memory. A failed
// checkpoint keeps the journal, so it is logged and not returned.
func (c *Corpus) checkpointIfDue() {
	if c.checkpointEvery <= 0 || c.journal.Appended() < c.checkpointEvery {
		return
	}
	err := c.checkpoint()
	if err != nil {
		log.Printf("ERROR: corpus '%s': %s\n", c.Name, err.Error())
	}
}

// checkpoint writes the snapshot and then truncates the journal. If the
// process stops in between, the commands left in the journal are at or below
// the snapshot sequence and replay skips them.
func (c *Corpus) checkpoint() error {
	err := c.writeSnapshot()
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return c.journal.Truncate()
}

func (c *Corpus) writeSnapshot() error {
	return journal.WriteSnapshot(c.snapshotFilename(), &snapshot{
		Seq:    c.journal.Seq(),
		Corpus: c.corpus,
	})
}

// Checkpoint writes a snapshot and empties the journal.
func (c *Corpus) Checkpoint() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.checkpoint()
}

func validDocument(document json.RawMessage) bool {
	return gjson.ValidBytes(document) && gjson.ParseBytes(document).IsObject()
}

func (c *Corpus) Strategy() corpus.Strategy {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.corpus.Strategy()
}

func (c *Corpus) Count() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.corpus.Count()
}

func (c *Corpus) NextID() corpus.ID {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.corpus.NextID()
}

func (c *Corpus) Add(document json.RawMessage) (corpus.ID, error) {
	if !validDocument(document) {
		return 0, ErrInvalidDocument
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	id := c.corpus.NextID()
	err := c.persist(CommandAdd, &entryCommand{ID: id, Document: document})
	if err != nil {
		return 0, err
	}

	id = c.corpus.Add(document)
	c.checkpointIfDue()

	return id, nil
}

func (c *Corpus) Get(id corpus.ID) (json.RawMessage, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, err := c.corpus.Get(id)
	if err != nil {
		return nil, err
	}
	return entry.Payload(), nil
}

func (c *Corpus) Replace(id corpus.ID, document json.RawMessage) (json.RawMessage, error) {
	if !validDocument(document) {
		return nil, ErrInvalidDocument
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.corpus.Get(id)
	if err != nil {
		return nil, err
	}

	err = c.persist(CommandReplace, &entryCommand{ID: id, Document: document})
	if err != nil {
		return nil, err
	}

	old, err := c.corpus.Replace(id, document)
	if err != nil {
		return nil, err
	}
	c.checkpointIfDue()

	return old, nil
}

// Remove reports false, and journals nothing, when id was already gone.
func (c *Corpus) Remove(id corpus.ID) (json.RawMessage, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.corpus.Get(id)
	if err != nil {
		return nil, false, nil
	}

	err = c.persist(CommandRemove, &entryCommand{ID: id})
	if err != nil {
		return nil, false, err
	}

	document, removed := c.corpus.Remove(id)
	c.checkpointIfDue()

	return document, removed, nil
}

// SetField changes one field of a stored document in place. value is raw
// JSON and is stored as written.
func (c *Corpus) SetField(id corpus.ID, path string, value json.RawMessage) (json.RawMessage, error) {
	if path == "" {
		return nil, fmt.Errorf("field path is required")
	}
	if !gjson.ValidBytes(value) {
		return nil, ErrInvalidValue
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, err := c.corpus.Get(id)
	if err != nil {
		return nil, err
	}

	var result json.RawMessage
	err = entry.Update(func(document *json.RawMessage) error {
		updated, err := sjson.SetRawBytes(*document, path, value)
		if err != nil {
			return fmt.Errorf("set field '%s': %w", path, err)
		}

		err = c.persist(CommandSetField, &setFieldCommand{ID: id, Path: path, Value: value})
		if err != nil {
			return err
		}

		*document = updated
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.checkpointIfDue()

	return result, nil
}

// GetField reads one field of a stored document as raw JSON; found is false
// if the path does not exist.
func (c *Corpus) GetField(id corpus.ID, path string) (value json.RawMessage, found bool, err error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, err := c.corpus.Get(id)
	if err != nil {
		return nil, false, err
	}

	result := gjson.GetBytes(entry.Payload(), path)
	if !result.Exists() {
		return nil, false, nil
	}
	return json.RawMessage(result.Raw), true, nil
}

func (c *Corpus) First() (corpus.ID, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.corpus.First()
}

func (c *Corpus) Last() (corpus.ID, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.corpus.Last()
}

func (c *Corpus) Next(id corpus.ID) (corpus.ID, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.corpus.Next(id)
}

func (c *Corpus) Prev(id corpus.ID) (corpus.ID, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.corpus.Prev(id)
}

// Current returns the cursor and whether it still names a live entry. The
// cursor is not cleared when its entry is removed.
func (c *Corpus) Current() (id corpus.ID, set bool, live bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	id, set = c.corpus.Current()
	if !set {
		return 0, false, false
	}
	_, err := c.corpus.Get(id)
	return id, true, err == nil
}

// SetCurrent only accepts live entries.
func (c *Corpus) SetCurrent(id corpus.ID) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.corpus.Get(id)
	if err != nil {
		return err
	}

	err = c.persist(CommandCurrent, &currentCommand{ID: &id})
	if err != nil {
		return err
	}

	c.corpus.SetCurrent(id)
	c.checkpointIfDue()

	return nil
}

func (c *Corpus) ClearCurrent() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.persist(CommandCurrent, &currentCommand{})
	if err != nil {
		return err
	}

	c.corpus.ClearCurrent()
	c.checkpointIfDue()

	return nil
}

type TraverseOptions struct {
	From    *corpus.ID     `json:"from"`
	Reverse bool           `json:"reverse"`
	Skip    int64          `json:"skip"`
	Limit   int64          `json:"limit"`
	Filter  map[string]any `json:"filter"`
}

// Traverse walks the documents in insertion order (or backwards with
// Reverse) starting at From, or at the first/last entry. A Limit of 0 means
// no limit. f returning false stops the walk.
func (c *Corpus) Traverse(options *TraverseOptions, f func(id corpus.ID, document json.RawMessage) bool) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	step := c.corpus.Next
	id, ok := c.corpus.First()
	if options.Reverse {
		step = c.corpus.Prev
		id, ok = c.corpus.Last()
	}
	if options.From != nil {
		_, err := c.corpus.Get(*options.From)
		if err != nil {
			return err
		}
		id, ok = *options.From, true
	}

	hasFilter := len(options.Filter) > 0
	skip := options.Skip
	limit := options.Limit

	for ; ok; id, ok = step(id) {

		entry, _ := c.corpus.Get(id)
		document := entry.Payload()

		if hasFilter {
			data := map[string]any{}
			json.Unmarshal(document, &data) // documents are validated on write

			match, err := connor.Match(options.Filter, data)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			if !match {
				continue
			}
		}

		if skip > 0 {
			skip--
			continue
		}

		if !f(id, document) {
			break
		}

		if limit > 0 {
			limit--
			if limit == 0 {
				break
			}
		}
	}

	return nil
}

// Close checkpoints pending journal commands and releases the files.
func (c *Corpus) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.journal.Appended() > 0 {
		err := c.checkpoint()
		if err != nil {
			log.Printf("ERROR: corpus '%s': %s\n", c.Name, err.Error())
		}
	}
	return c.journal.Close()
}

// Drop deletes the corpus files and closes it. The snapshot goes first: if
// it cannot be removed the corpus is left open and untouched.
func (c *Corpus) Drop() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := os.Remove(c.snapshotFilename())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove: %w", err)
	}

	err = c.journal.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	err = os.Remove(c.journalFilename())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}
