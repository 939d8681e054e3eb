// Command vocab is the vibevocab command line. It runs the HTTP and MCP servers,
// looks up and imports words, and maintains the notebook database.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, "%v", err)
		stop()
		os.Exit(1)
	}
}
