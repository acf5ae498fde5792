// Command cla-val checks that every contributor to a pull request has signed
// the contributor licence agreement.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(buildInfo{version: version, commit: commit, date: date})
	return root.ExecuteContext(ctx)
}
