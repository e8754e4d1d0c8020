package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fulldump/corpusdb/corpus"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrCorpusNotFound      = errors.New("corpus not found")
	ErrCorpusAlreadyExists = errors.New("corpus already exists")
	ErrInvalidName         = errors.New("invalid corpus name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

type Config struct {
	Dir string
	// Strategy is used by corpora created without an explicit one.
	Strategy corpus.Strategy
	// CheckpointEvery is the number of journaled commands after which a
	// snapshot is written. 0 disables automatic checkpoints.
	CheckpointEvery int
}

type Database struct {
	Config  *Config
	status  string
	corpora map[string]*Corpus
	mutex   *sync.RWMutex
	exit    chan struct{}
}

func NewDatabase(config *Config) *Database { // todo: return error?
	if config.Strategy == "" {
		config.Strategy = corpus.DefaultStrategy
	}

	return &Database{
		Config:  config,
		status:  StatusOpening,
		corpora: map[string]*Corpus{},
		mutex:   &sync.RWMutex{},
		exit:    make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

func (db *Database) CreateCorpus(name string, strategy corpus.Strategy) (*Corpus, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	if strategy == "" {
		strategy = db.Config.Strategy
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.corpora[name]; exists {
		return nil, ErrCorpusAlreadyExists
	}

	c, err := OpenCorpus(db.Config.Dir, name, strategy, db.Config.CheckpointEvery)
	if err != nil {
		return nil, err
	}
	db.corpora[name] = c

	return c, nil
}

func (db *Database) GetCorpus(name string) (*Corpus, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	c, exists := db.corpora[name]
	if !exists {
		return nil, ErrCorpusNotFound
	}
	return c, nil
}

// ListCorpora returns the corpora sorted by name.
func (db *Database) ListCorpora() []*Corpus {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := make([]*Corpus, 0, len(db.corpora))
	for _, c := range db.corpora {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (db *Database) DropCorpus(name string) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	c, exists := db.corpora[name]
	if !exists {
		return ErrCorpusNotFound
	}

	err := c.Drop()
	if err != nil {
		return err
	}
	delete(db.corpora, name)

	return nil
}

// Load opens every corpus found in Dir, in parallel.
func (db *Database) Load() error {

	log.Printf("Loading database %s...\n", db.Config.Dir)
	dir := db.Config.Dir
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	names := map[string]bool{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		for _, suffix := range []string{journalSuffix, snapshotSuffix} {
			name, found := strings.CutSuffix(file.Name(), suffix)
			if found && validName.MatchString(name) {
				names[name] = true
			}
		}
	}

	loaded := make(chan *Corpus, len(names))
	g := &errgroup.Group{}
	g.SetLimit(8)
	for name := range names {
		g.Go(func() error {
			t0 := time.Now()
			c, err := OpenCorpus(dir, name, db.Config.Strategy, db.Config.CheckpointEvery)
			if err != nil {
				log.Printf("ERROR: open corpus '%s': %s\n", name, err.Error())
				return fmt.Errorf("open corpus '%s': %w", name, err)
			}
			log.Println(name, c.Strategy(), c.Count(), time.Since(t0))
			loaded <- c
			return nil
		})
	}
	err = g.Wait()
	close(loaded)

	db.mutex.Lock()
	for c := range loaded {
		db.corpora[c.Name] = c
	}
	db.mutex.Unlock()

	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	db.setStatus(StatusOperating)

	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.setStatus(StatusClosing)

	var lastErr error
	for _, c := range db.ListCorpora() {
		log.Printf("Closing '%s'...\n", c.Name)
		err := c.Close()
		if err != nil {
			log.Printf("ERROR: close(%s): %s\n", c.Name, err.Error())
			lastErr = err
		}
	}

	return lastErr
}
