package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"

	"github.com/rotas-project/rotas/internal/cli"
)

func main() {
	cmd := cli.New()

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd.SetContext(ctx)

	err := cmd.Execute()
	cancel()
	if err != nil {
		color.Red.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
