package apicorpusv1

import (
	"context"
)

func listCorpora(ctx context.Context) ([]*CorpusResponse, error) {

	s := GetServicer(ctx)

	result := []*CorpusResponse{}
	for _, c := range s.ListCorpora() {
		result = append(result, newCorpusResponse(c))
	}

	return result, nil
}
