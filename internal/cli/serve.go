package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	wikirunner "github.com/Vedant6oyal/Wiki-Runner"
	api "github.com/Vedant6oyal/Wiki-Runner/internal/adapters/http"
	"github.com/Vedant6oyal/Wiki-Runner/internal/observability"
)

// ServeOptions parameterizes the control API server.
type ServeOptions struct {
	ConfigPath string
	Addr       string
	Solver     string
	Model      string
}

// Serve runs the JSON control API until interrupted.
func Serve(opts ServeOptions) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.Solver, opts.Model)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	logger := createLogger(cfg.LogLevel)

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	agent, err := wikirunner.New(ctx, cfg,
		wikirunner.WithLogger(logger),
		wikirunner.WithLifecycleHooks(observability.Hooks()),
	)
	if err != nil {
		return err
	}
	defer agent.Close()

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewHandler(agent.Runner(), api.WithLogger(logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("control API listening", "addr", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
