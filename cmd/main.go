package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"components.dev/calc/internal/interfaces/cli"
	"components.dev/calc/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		container.Logger.Info("received shutdown signal, shutting down gracefully")
		cancel()
	}()

	exitCode := 0
	if err := cli.Execute(ctx, container.GetCLIContainer()); err != nil {
		exitCode = 1
	}
	cancel()

	if err := container.Shutdown(context.Background()); err != nil {
		container.Logger.Error("error during shutdown", "error", err)
	}
	os.Exit(exitCode)
}
