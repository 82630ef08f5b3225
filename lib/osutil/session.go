package osutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context cancelled on SIGINT/SIGTERM. A second
// signal exits immediately, for when shutdown hangs on an open browser
// connection.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("shutting down...")
		cancel()
		<-sigs
		os.Exit(1)
	}()

	return ctx
}
