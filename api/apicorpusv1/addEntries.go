package apicorpusv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// addEntries reads one or more documents, one JSON object per line, and
// answers with one entry per line in the same order.
func addEntries(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	c, err := getCorpusFromPath(ctx)
	if err != nil {
		return err
	}

	jsonReader := json.NewDecoder(r.Body)
	jsonWriter := json.NewEncoder(w)

	for i := 0; true; i++ {
		document := json.RawMessage{}
		err := jsonReader.Decode(&document)
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			if i == 0 {
				return err
			}
			// headers are gone, the client sees a short stream
			jsonWriter.Encode(map[string]any{"error": err.Error()})
			return nil
		}

		id, err := c.Add(document)
		if err != nil {
			if i == 0 {
				return err
			}
			jsonWriter.Encode(map[string]any{"error": err.Error()})
			return nil
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(&EntryResponse{ID: id, Document: document})
	}

	return nil
}
