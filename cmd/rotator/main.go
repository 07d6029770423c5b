package main

import (
	"os"

	"github.com/arnavshah/lineup-rotator-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
