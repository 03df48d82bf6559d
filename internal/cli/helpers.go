package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
)

// createLogger builds the CLI logger at the configured level.
func createLogger(level string) *slog.Logger {
	return logging.New(logging.ParseLevel(level))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
