package apicorpusv1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type setFieldRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

func setField(ctx context.Context, w http.ResponseWriter, input *setFieldRequest) (*EntryResponse, error) {

	c, id, err := getEntryFromPath(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Path) == "" {
		return nil, fmt.Errorf("%w: path is required", ErrInvalidInput)
	}
	if len(input.Value) == 0 {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}

	document, err := c.SetField(id, input.Path, input.Value)
	if err != nil {
		return nil, err
	}

	return &EntryResponse{ID: id, Document: document}, nil
}

type FieldResponse struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

func getField(ctx context.Context, r *http.Request) (*FieldResponse, error) {

	c, id, err := getEntryFromPath(ctx)
	if err != nil {
		return nil, err
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", ErrInvalidInput)
	}

	value, found, err := c.GetField(id, path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: '%s'", ErrFieldNotFound, path)
	}

	return &FieldResponse{Path: path, Value: value}, nil
}
