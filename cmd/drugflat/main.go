// Command drugflat converts a DrugBank XML export into normalized CSV tables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/drugflat/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := cli.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(status)
}
