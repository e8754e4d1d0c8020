package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fulldump/corpusdb/corpus"
)

// TestStore compares both ordered stores in process: add N entries, walk
// them, remove a random half and walk the survivors backwards.
func TestStore(c Config) {

	for _, strategy := range []corpus.Strategy{corpus.StrategyLinked, corpus.StrategySorted} {

		corp, err := corpus.NewWithStrategy[int64](strategy)
		if err != nil {
			panic(err)
		}

		t0 := time.Now()
		for i := int64(0); i < c.N; i++ {
			corp.Add(i)
		}
		tookAdd := time.Since(t0)

		t0 = time.Now()
		walked := 0
		for id, ok := corp.First(); ok; id, ok = corp.Next(id) {
			walked++
		}
		tookWalk := time.Since(t0)

		rng := rand.New(rand.NewSource(1))
		t0 = time.Now()
		for _, i := range rng.Perm(int(c.N))[:c.N/2] {
			corp.Remove(corpus.ID(i))
		}
		tookRemove := time.Since(t0)

		t0 = time.Now()
		survivors := 0
		for id, ok := corp.Last(); ok; id, ok = corp.Prev(id) {
			survivors++
		}
		tookWalkBack := time.Since(t0)

		fmt.Printf("%-7s add: %v (%.2f entries/sec) walk %d: %v remove: %v walk back %d: %v\n",
			strategy,
			tookAdd, float64(c.N)/tookAdd.Seconds(),
			walked, tookWalk,
			tookRemove,
			survivors, tookWalkBack,
		)
	}
}
