package apicorpusv1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

func traverseOptions(r *http.Request) (*database.TraverseOptions, error) {

	query := r.URL.Query()
	options := &database.TraverseOptions{}

	if v := query.Get("from"); v != "" {
		from, err := corpus.ParseID(v)
		if err != nil {
			return nil, fmt.Errorf("%w: from '%s'", ErrInvalidInput, v)
		}
		options.From = &from
	}

	if v := query.Get("reverse"); v != "" {
		reverse, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: reverse '%s'", ErrInvalidInput, v)
		}
		options.Reverse = reverse
	}

	for key, target := range map[string]*int64{"skip": &options.Skip, "limit": &options.Limit} {
		v := query.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s '%s'", ErrInvalidInput, key, v)
		}
		*target = n
	}

	if v := query.Get("filter"); v != "" {
		err := json.Unmarshal([]byte(v), &options.Filter)
		if err != nil {
			return nil, fmt.Errorf("%w: filter: %s", ErrInvalidInput, err.Error())
		}
	}

	return options, nil
}

// listEntries streams the matching entries, one JSON object per line.
func listEntries(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return err
	}

	options, err := traverseOptions(r)
	if err != nil {
		return err
	}

	jsonWriter := json.NewEncoder(w)
	return c.Traverse(options, func(id corpus.ID, document json.RawMessage) bool {
		err := jsonWriter.Encode(&EntryResponse{ID: id, Document: document})
		return err == nil
	})
}
