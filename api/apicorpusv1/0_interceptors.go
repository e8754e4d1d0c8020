package apicorpusv1

import (
	"context"

	"github.com/fulldump/corpusdb/service"
)

const ContextServicerKey = "5e3c2a9e-7b1d-11ef-8f43-6b2d1c0e9a71"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer) // TODO: can raise panic :D
}
