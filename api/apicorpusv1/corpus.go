package apicorpusv1

import (
	"encoding/json"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

type CorpusResponse struct {
	Name     string          `json:"name"`
	Strategy corpus.Strategy `json:"strategy"`
	Total    int             `json:"total"`
	NextID   corpus.ID       `json:"next_id"`
}

func newCorpusResponse(c *database.Corpus) *CorpusResponse {
	return &CorpusResponse{
		Name:     c.Name,
		Strategy: c.Strategy(),
		Total:    c.Count(),
		NextID:   c.NextID(),
	}
}

type EntryResponse struct {
	ID       corpus.ID       `json:"id"`
	Document json.RawMessage `json:"document"`
	Previous json.RawMessage `json:"previous,omitempty"`
}

type CurrentResponse struct {
	ID   *corpus.ID `json:"id"`
	Live bool       `json:"live"`
}
