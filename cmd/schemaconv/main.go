package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/reoring/schemaconv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cli.Execute(ctx, cli.NewApp(), os.Args[1:]...); err != nil {
		stop()
		os.Exit(1)
	}
}
