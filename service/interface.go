package service

import (
	"errors"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

var ErrorCorpusNotFound = errors.New("corpus not found")
var ErrorCorpusAlreadyExists = errors.New("corpus already exists")

type Servicer interface { // todo: review naming
	CreateCorpus(name string, strategy corpus.Strategy) (*database.Corpus, error)
	GetCorpus(name string) (*database.Corpus, error)
	ListCorpora() []*database.Corpus
	DropCorpus(name string) error
}
