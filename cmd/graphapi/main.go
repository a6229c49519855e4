// Package main is the entry point for the graphapi CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/syssam/graphapi/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
