package apicorpusv1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fulldump/box"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrEndOfCorpus   = errors.New("no more entries")
	ErrEmptyCorpus   = errors.New("corpus is empty")
	ErrFieldNotFound = errors.New("field not found")
)

func getCorpusFromPath(ctx context.Context) (*database.Corpus, error) {
	corpusName := box.GetUrlParameter(ctx, "corpusName")
	return GetServicer(ctx).GetCorpus(corpusName)
}

func getEntryID(ctx context.Context) (corpus.ID, error) {
	entryID := strings.TrimSpace(box.GetUrlParameter(ctx, "entryId"))
	if entryID == "" {
		return 0, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	id, err := corpus.ParseID(entryID)
	if err != nil {
		return 0, fmt.Errorf("%w: entry id '%s'", ErrInvalidInput, entryID)
	}
	return id, nil
}

// getEntryFromPath resolves both path parameters at once.
func getEntryFromPath(ctx context.Context) (*database.Corpus, corpus.ID, error) {
	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return nil, 0, err
	}

	id, err := getEntryID(ctx)
	if err != nil {
		return nil, 0, err
	}

	return c, id, nil
}
