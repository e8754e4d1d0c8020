package metrics

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/fulldump/box"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fulldump/corpusdb/database"
)

func TestCollector(t *testing.T) {

	db := database.NewDatabase(&database.Config{Dir: t.TempDir()})
	biff.AssertNil(db.Load())

	c, err := db.CreateCorpus("things", "")
	biff.AssertNil(err)
	c.Add(json.RawMessage(`{"a":1}`))
	c.Add(json.RawMessage(`{"a":2}`))
	c.Remove(0)

	collector := NewCollector(db)

	// status (3) + corpora + entries + next_id
	biff.AssertEqual(testutil.CollectAndCount(collector), 6)
	biff.AssertEqual(testutil.CollectAndCount(collector, "corpusdb_corpus_entries"), 1)

	registry := prometheus.NewRegistry()
	biff.AssertNil(registry.Register(collector))

	families, err := registry.Gather()
	biff.AssertNil(err)

	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if metric.GetGauge() != nil && len(metric.GetLabel()) > 0 && metric.GetLabel()[0].GetName() == "corpus" {
				values[family.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	biff.AssertEqual(values["corpusdb_corpus_entries"], float64(1))
	biff.AssertEqual(values["corpusdb_corpus_next_id"], float64(2))
}

func TestRequests(t *testing.T) {

	requests := NewRequests()

	b := box.NewBox()
	b.WithInterceptors(requests.Interceptor)
	b.Resource("/hello").WithActions(
		box.Get(func() string {
			return "hello"
		}).WithName("hello"),
		box.Post(func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusTeapot)
		}).WithName("brew"),
	)

	api := apitest.NewWithHandler(b)

	resp := api.Request("GET", "/hello").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	resp = api.Request("POST", "/hello").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusTeapot)

	biff.AssertEqual(testutil.ToFloat64(requests.total.WithLabelValues("hello", "200")), float64(1))
	biff.AssertEqual(testutil.ToFloat64(requests.total.WithLabelValues("brew", "418")), float64(1))
}
