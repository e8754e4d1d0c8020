package apicorpusv1

import (
	"context"
	"encoding/json"
	"net/http"
)

func replaceEntry(ctx context.Context, w http.ResponseWriter, input *json.RawMessage) (*EntryResponse, error) {

	c, id, err := getEntryFromPath(ctx)
	if err != nil {
		return nil, err
	}

	previous, err := c.Replace(id, *input)
	if err != nil {
		return nil, err
	}

	return &EntryResponse{ID: id, Document: *input, Previous: previous}, nil
}
