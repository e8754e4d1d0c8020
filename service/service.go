package service

import (
	"errors"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateCorpus(name string, strategy corpus.Strategy) (*database.Corpus, error) {

	c, err := s.db.CreateCorpus(name, strategy)
	if errors.Is(err, database.ErrCorpusAlreadyExists) {
		return nil, ErrorCorpusAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetCorpus(name string) (*database.Corpus, error) {

	c, err := s.db.GetCorpus(name)
	if errors.Is(err, database.ErrCorpusNotFound) {
		return nil, ErrorCorpusNotFound
	}

	return c, err
}

func (s *Service) ListCorpora() []*database.Corpus {
	return s.db.ListCorpora()
}

func (s *Service) DropCorpus(name string) error {

	err := s.db.DropCorpus(name)
	if errors.Is(err, database.ErrCorpusNotFound) {
		return ErrorCorpusNotFound
	}

	return err
}
