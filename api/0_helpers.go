package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/corpusdb/api/apicorpusv1"
	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
	"github.com/fulldump/corpusdb/service"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("%w: opening", ErrUnavailable))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: closing", ErrUnavailable))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus maps an error to its status code and description.
func errorStatus(ctx context.Context, err error) (int, string) {

	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "database is not operating, try again later"
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.As(err, &typeError):
		return http.StatusBadRequest, "Unexpected JSON type"
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "Empty body"
	case errors.Is(err, service.ErrorCorpusNotFound):
		return http.StatusNotFound, fmt.Sprintf("corpus '%s' does not exist", box.GetUrlParameter(ctx, "corpusName"))
	case errors.Is(err, corpus.ErrKeyNotFound):
		return http.StatusNotFound, "entry does not exist"
	case errors.Is(err, apicorpusv1.ErrEndOfCorpus),
		errors.Is(err, apicorpusv1.ErrEmptyCorpus),
		errors.Is(err, apicorpusv1.ErrFieldNotFound):
		return http.StatusNotFound, "nothing to return"
	case errors.Is(err, service.ErrorCorpusAlreadyExists):
		return http.StatusConflict, "choose another name or drop the existing corpus"
	case errors.Is(err, corpus.ErrEntryBorrowed):
		return http.StatusConflict, "entry is being modified, try again"
	case errors.Is(err, apicorpusv1.ErrInvalidInput),
		errors.Is(err, database.ErrInvalidDocument),
		errors.Is(err, database.ErrInvalidValue),
		errors.Is(err, database.ErrInvalidName),
		errors.Is(err, corpus.ErrUnknownStrategy):
		return http.StatusBadRequest, "Bad request"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		status, description := errorStatus(ctx, err)
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
