package main

import (
	"os"
	"os/signal"
	"syscall"

	"sneakerculture/internal/bootstrap"
)

func main() {
	container := bootstrap.NewContainer()
	container.MustInit()

	if err := container.Start(); err != nil {
		container.Log.Errorf("Failed to start: %v", err)
		container.Shutdown()
		os.Exit(1)
	}

	waitForShutdown(container)
	container.Shutdown()
}

// waitForShutdown blocks until a termination signal arrives or a component fails
func waitForShutdown(container *bootstrap.Container) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		container.Log.Infow("Shutting down...", "signal", sig.String())
	case <-container.Done():
		container.Log.Warn("Component failure, shutting down...")
	}
}
