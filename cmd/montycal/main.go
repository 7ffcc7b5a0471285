package main

import (
	"log/slog"
	"os"

	"github.com/runnerr0/montycal/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		slog.Error("montycal failed", "error", err)
		os.Exit(1)
	}
}
