package main

import (
	"os"

	"github.com/n0roo/navkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
