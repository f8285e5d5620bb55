// Package main provides the repoctl entry point.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp()
	err := a.root.ExecuteContext(ctx)
	a.finish()
	stop()

	if err != nil {
		os.Exit(1)
	}
}
