package apicorpusv1

import (
	"context"
	"fmt"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

func nextEntry(ctx context.Context) (*EntryResponse, error) {
	return neighbour(ctx, (*database.Corpus).Next, "after")
}

func prevEntry(ctx context.Context) (*EntryResponse, error) {
	return neighbour(ctx, (*database.Corpus).Prev, "before")
}

func neighbour(ctx context.Context, step func(*database.Corpus, corpus.ID) (corpus.ID, bool), direction string) (*EntryResponse, error) {

	c, id, err := getEntryFromPath(ctx)
	if err != nil {
		return nil, err
	}

	// a missing pivot is reported as such, not as the end of the corpus
	_, err = c.Get(id)
	if err != nil {
		return nil, err
	}

	neighbourID, ok := step(c, id)
	if !ok {
		return nil, fmt.Errorf("%w %s %s", ErrEndOfCorpus, direction, id)
	}

	return entryResponse(c, neighbourID)
}

func firstEntry(ctx context.Context) (*EntryResponse, error) {
	return edge(ctx, (*database.Corpus).First)
}

func lastEntry(ctx context.Context) (*EntryResponse, error) {
	return edge(ctx, (*database.Corpus).Last)
}

func edge(ctx context.Context, f func(*database.Corpus) (corpus.ID, bool)) (*EntryResponse, error) {

	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return nil, err
	}

	id, ok := f(c)
	if !ok {
		return nil, ErrEmptyCorpus
	}

	return entryResponse(c, id)
}

func entryResponse(c *database.Corpus, id corpus.ID) (*EntryResponse, error) {
	document, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return &EntryResponse{ID: id, Document: document}, nil
}
