package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/fulldump/corpusdb/corpus"
	"github.com/fulldump/corpusdb/database"
)

func TestRemove(c Config) {

	createServer := c.Base == ""

	var stop func()
	var dataDir string
	if createServer {
		dataDir, stop = CreateServer(&c)
	}

	corpusName := CreateCorpus(c.Base, c.Strategy)

	transport := &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConns:        1024,
		MaxIdleConnsPerHost: 1024,
	}
	defer transport.CloseIdleConnections()

	client := &http.Client{
		Transport: transport,
		Timeout:   10 * time.Second,
	}

	{
		fmt.Println("Preload entries...")
		r, w := io.Pipe()

		encoder := json.NewEncoder(w)
		go func() {
			for i := int64(0); i < c.N; i++ {
				encoder.Encode(JSON{
					"value":  i,
					"worker": i % int64(c.Workers),
				})
			}
			w.Close()
		}()

		req, err := http.NewRequest("POST", c.Base+"/v1/corpora/"+corpusName+"/entries", r)
		if err != nil {
			fmt.Println("ERROR: new request:", err.Error())
			os.Exit(3)
		}

		resp, err := client.Do(req)
		if err != nil {
			fmt.Println("ERROR: do request:", err.Error())
			os.Exit(4)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	// ids are issued in order starting at 0, so every worker removes its own
	// interleaved slice of them
	t0 := time.Now()
	next := int64(-1)
	Parallel(c.Workers, func() {
		for {
			id := atomic.AddInt64(&next, 1)
			if id >= c.N {
				return
			}

			removeURL := fmt.Sprintf("%s/v1/corpora/%s/entries/%d", c.Base, corpusName, id)
			req, err := http.NewRequest(http.MethodDelete, removeURL, nil)
			if err != nil {
				fmt.Println("ERROR: new request:", err.Error())
				return
			}

			resp, err := client.Do(req)
			if err != nil {
				fmt.Println("ERROR: do request:", err.Error())
				return
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				fmt.Println("ERROR: bad status:", resp.Status)
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("removed:", c.N)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f entries/sec\n", float64(c.N)/took.Seconds())

	if !createServer {
		return
	}

	stop() // Stop the server

	strategy, _ := corpus.ParseStrategy(c.Strategy)

	t1 := time.Now()
	col, err := database.OpenCorpus(dataDir, corpusName, strategy, 0)
	if err != nil {
		fmt.Println("ERROR: open corpus:", err.Error())
		return
	}
	tookOpen := time.Since(t1)
	fmt.Println("open took:", tookOpen, "entries:", col.Count(), "next id:", col.NextID())
	col.Close()
}
