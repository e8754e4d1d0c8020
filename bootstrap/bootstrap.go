package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulldump/box"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fulldump/corpusdb/api"
	"github.com/fulldump/corpusdb/configuration"
	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
	"github.com/fulldump/corpusdb/metrics"
	"github.com/fulldump/corpusdb/service"
)

var VERSION = "dev"

// Handler wires the database, the API and, when enabled, /metrics.
func Handler(c *configuration.Configuration, db *database.Database) (http.Handler, error) {

	b := api.Build(service.NewService(db), VERSION, c.ApiKey, c.ApiSecret)

	mux := http.NewServeMux()

	if c.EnableMetrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		requests := metrics.NewRequests()
		err := metrics.Register(registry, db, requests)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		b.WithInterceptors(requests.Interceptor)

		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
	)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.PrettyErrorInterceptor,
		api.RecoverFromPanic,
		api.InterceptorUnavailable(db),
	)

	mux.Handle("/", box.Box2Http(b))

	return mux, nil
}

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	strategy, err := corpus.ParseStrategy(c.Strategy)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}

	db := database.NewDatabase(&database.Config{
		Dir:             c.Dir,
		Strategy:        strategy,
		CheckpointEvery: c.CheckpointEvery,
	})

	h, err := Handler(c, db)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: h,
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("listening on", c.HttpAddr)

	once := &sync.Once{}
	stop = func() {
		once.Do(func() {
			s.Shutdown(context.Background())
			db.Stop()
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				fmt.Println(err.Error())
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				fmt.Println(err.Error())
			}
		}()

		wg.Wait()
	}

	return
}
