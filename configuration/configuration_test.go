package configuration

import (
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/corpusdb/corpus"
)

func TestDefault(t *testing.T) {

	c := Default()

	strategy, err := corpus.ParseStrategy(c.Strategy)
	biff.AssertNil(err)
	biff.AssertEqual(strategy, corpus.StrategyLinked)
	biff.AssertEqual(c.HttpAddr, "127.0.0.1:8080")
	biff.AssertEqual(c.ApiKey, "")
}
