package apicorpusv1

import (
	"context"
	"net/http"

	"github.com/fulldump/corpusdb/corpus"
)

type createCorpusRequest struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
}

func createCorpus(ctx context.Context, w http.ResponseWriter, input *createCorpusRequest) (*CorpusResponse, error) {

	s := GetServicer(ctx)

	strategy, err := corpus.ParseStrategy(input.Strategy)
	if err != nil {
		return nil, err
	}

	c, err := s.CreateCorpus(input.Name, strategy)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newCorpusResponse(c), nil
}
