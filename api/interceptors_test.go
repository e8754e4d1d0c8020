package api

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/fulldump/box"

	"github.com/fulldump/corpusdb/database"
	"github.com/fulldump/corpusdb/service"
)

func TestInterceptorUnavailable(t *testing.T) {

	db := database.NewDatabase(&database.Config{
		Dir: t.TempDir(),
	})

	b := Build(service.NewService(db), "test", "", "")
	b.WithInterceptors(
		PrettyErrorInterceptor,
		InterceptorUnavailable(db),
	)

	api := apitest.NewWithHandler(b)

	resp := api.Request("GET", "/v1/corpora").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)

	biff.AssertNil(db.Load())
	resp = api.Request("GET", "/v1/corpora").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
}

func TestRecoverFromPanic(t *testing.T) {

	b := box.NewBox()
	b.WithInterceptors(
		PrettyErrorInterceptor,
		RecoverFromPanic,
	)
	b.Resource("/boom").WithActions(
		box.Get(func() string {
			panic("boom")
		}).WithName("boom"),
	)

	api := apitest.NewWithHandler(b)

	resp := api.Request("GET", "/boom").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusInternalServerError)
	biff.AssertEqual(resp.BodyJsonMap()["error"].(map[string]any)["message"], "panic: boom")
}

func TestCompression(t *testing.T) {

	b := box.NewBox()
	b.WithInterceptors(Compression)
	b.Resource("/hello").WithActions(
		box.Get(func() string {
			return "hello"
		}).WithName("hello"),
	)

	server := apitest.NewWithHandler(b)

	// The default transport would decompress transparently.
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp := server.Request("GET", "/hello").
		WithHeader("Accept-Encoding", "gzip").
		WithHttpClient(client).
		Do()

	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")

	gz, err := gzip.NewReader(bytes.NewReader(resp.BodyBytes()))
	biff.AssertNil(err)
	body, err := io.ReadAll(gz)
	biff.AssertNil(err)
	biff.AssertEqual(string(body), "\"hello\"\n")
}
