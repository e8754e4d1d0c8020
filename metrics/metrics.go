// Package metrics exposes the database and the HTTP API to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fulldump/box"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fulldump/corpusdb/database"
)

// Collector reads the corpora on every scrape, nothing is cached.
type Collector struct {
	db      *database.Database
	status  *prometheus.Desc
	corpora *prometheus.Desc
	entries *prometheus.Desc
	nextID  *prometheus.Desc
}

func NewCollector(db *database.Database) *Collector {
	return &Collector{
		db: db,
		status: prometheus.NewDesc(
			"corpusdb_database_status",
			"Database status, 1 for the current one",
			[]string{"status"}, nil,
		),
		corpora: prometheus.NewDesc(
			"corpusdb_corpora",
			"Number of open corpora",
			nil, nil,
		),
		entries: prometheus.NewDesc(
			"corpusdb_corpus_entries",
			"Number of live entries in a corpus",
			[]string{"corpus", "strategy"}, nil,
		),
		nextID: prometheus.NewDesc(
			"corpusdb_corpus_next_id",
			"Id the next added entry will get",
			[]string{"corpus"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.status
	ch <- c.corpora
	ch <- c.entries
	ch <- c.nextID
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {

	current := c.db.GetStatus()
	for _, status := range []string{database.StatusOpening, database.StatusOperating, database.StatusClosing} {
		value := 0.0
		if status == current {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(c.status, prometheus.GaugeValue, value, status)
	}

	corpora := c.db.ListCorpora()
	ch <- prometheus.MustNewConstMetric(c.corpora, prometheus.GaugeValue, float64(len(corpora)))

	for _, corpus := range corpora {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(corpus.Count()), corpus.Name, string(corpus.Strategy()))
		ch <- prometheus.MustNewConstMetric(c.nextID, prometheus.GaugeValue, float64(corpus.NextID()), corpus.Name)
	}
}

// Requests measures every request served by the API, labelled by action.
type Requests struct {
	latency *prometheus.HistogramVec
	total   *prometheus.CounterVec
}

func NewRequests() *Requests {
	return &Requests{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "corpusdb_request_duration_seconds",
			Help:    "Latency of API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corpusdb_requests_total",
			Help: "Total API requests by action and status code",
		}, []string{"action", "code"}),
	}
}

func (r *Requests) Describe(ch chan<- *prometheus.Desc) {
	r.latency.Describe(ch)
	r.total.Describe(ch)
}

func (r *Requests) Collect(ch chan<- prometheus.Metric) {
	r.latency.Collect(ch)
	r.total.Collect(ch)
}

func (r *Requests) Interceptor(next box.H) box.H {
	return func(ctx context.Context) {
		c := box.GetBoxContext(ctx)
		w := &statusRecorder{ResponseWriter: c.Response, status: http.StatusOK}
		c.Response = w

		t0 := time.Now()
		next(ctx)

		action := "unknown"
		if c.Action != nil {
			action = c.Action.Name
		}
		r.latency.WithLabelValues(action).Observe(time.Since(t0).Seconds())
		r.total.WithLabelValues(action, strconv.Itoa(w.status)).Inc()
	}
}

// Register adds the database collector and the request metrics to registerer.
func Register(registerer prometheus.Registerer, db *database.Database, requests *Requests) error {
	err := registerer.Register(NewCollector(db))
	if err != nil {
		return err
	}
	return registerer.Register(requests)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusRecorder) WriteHeader(status int) {
	if !w.wrote {
		w.status = status
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}
