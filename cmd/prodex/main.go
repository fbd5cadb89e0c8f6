package main

import (
	"os"

	"github.com/kailas-cloud/prodex/cmd/prodex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
