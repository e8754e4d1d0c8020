package apicorpusv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func dropCorpus(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)

	corpusName := box.GetUrlParameter(ctx, "corpusName")

	return s.DropCorpus(corpusName)
}
