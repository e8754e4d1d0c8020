package apicorpusv1

import (
	"context"

	"github.com/fulldump/corpusdb/corpus"
)

func removeEntry(ctx context.Context) (*EntryResponse, error) {

	c, id, err := getEntryFromPath(ctx)
	if err != nil {
		return nil, err
	}

	document, removed, err := c.Remove(id)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, &corpus.KeyNotFoundError{ID: id}
	}

	return &EntryResponse{ID: id, Document: document}, nil
}
