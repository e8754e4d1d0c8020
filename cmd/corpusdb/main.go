package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/corpusdb/bootstrap"
	"github.com/fulldump/corpusdb/configuration"
)

var banner = `
  ____                            ____  ____
 / ___|___  _ __ _ __  _   _ ___|  _ \| __ )
| |   / _ \| '__| '_ \| | | / __| | | |  _ \
| |__| (_) | |  | |_) | |_| \__ \ |_| | |_) |
 \____\___/|_|  | .__/ \__,_|___/____/|____/
                |_|      version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(c)
	start()
}
