package apicorpusv1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

func currentResponse(c *database.Corpus) *CurrentResponse {
	id, set, live := c.Current()
	if !set {
		return &CurrentResponse{}
	}
	return &CurrentResponse{ID: &id, Live: live}
}

func getCurrent(ctx context.Context) (*CurrentResponse, error) {

	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return nil, err
	}

	return currentResponse(c), nil
}

type setCurrentRequest struct {
	ID *corpus.ID `json:"id"`
}

func setCurrent(ctx context.Context, w http.ResponseWriter, input *setCurrentRequest) (*CurrentResponse, error) {

	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return nil, err
	}

	if input.ID == nil {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	err = c.SetCurrent(*input.ID)
	if err != nil {
		return nil, err
	}

	return currentResponse(c), nil
}

func clearCurrent(ctx context.Context) (*CurrentResponse, error) {

	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return nil, err
	}

	err = c.ClearCurrent()
	if err != nil {
		return nil, err
	}

	return currentResponse(c), nil
}
