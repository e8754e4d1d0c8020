package apicorpusv1

import (
	"context"
)

func getEntry(ctx context.Context) (*EntryResponse, error) {

	c, id, err := getEntryFromPath(ctx)
	if err != nil {
		return nil, err
	}

	document, err := c.Get(id)
	if err != nil {
		return nil, err
	}

	return &EntryResponse{ID: id, Document: document}, nil
}
