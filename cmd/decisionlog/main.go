package main

import (
	"os"

	"github.com/rustyeddy/decisionlog/cmd/decisionlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
