package configuration

import (
	"github.com/fulldump/corpusdb/corpus"
)

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"data directory"`
	Strategy          string `usage:"default ordered store for new corpora: linked | sorted"`
	CheckpointEvery   int    `usage:"journaled commands per corpus before a snapshot is written, 0 disables"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	EnableMetrics     bool   `usage:"serve prometheus metrics on /metrics"`
	ApiKey            string `usage:"require this X-Api-Key header, empty disables authentication"`
	ApiSecret         string `usage:"require this X-Api-Secret header"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:          "127.0.0.1:8080",
		Dir:               "data",
		Strategy:          string(corpus.DefaultStrategy),
		CheckpointEvery:   10000,
		EnableCompression: true,
		EnableMetrics:     true,
		ShowBanner:        true,
	}
}
