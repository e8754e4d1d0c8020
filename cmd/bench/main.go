package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test     string `usage:"name of the test: ALL | STORE | INSERT | REMOVE"`
	Base     string `usage:"base URL, empty starts an embedded server"`
	N        int64  `usage:"number of documents"`
	Workers  int    `usage:"number of workers"`
	Strategy string `usage:"ordered store for the HTTP tests: linked | sorted"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:     "store",
		Base:     "",
		N:        1_000_000,
		Workers:  16,
		Strategy: "linked",
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestStore(c)
		TestInsert(c)
		TestRemove(c)
	case "STORE":
		TestStore(c)
	case "INSERT":
		TestInsert(c)
	case "REMOVE":
		TestRemove(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
