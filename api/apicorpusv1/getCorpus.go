package apicorpusv1

import (
	"context"
)

func getCorpus(ctx context.Context) (*CorpusResponse, error) {

	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return nil, err
	}

	return newCorpusResponse(c), nil
}
