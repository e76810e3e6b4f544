package main

import (
	"os"

	"github.com/abr-tools/abr-ingest/cmd/abr-ingest/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
