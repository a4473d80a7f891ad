// Command statusd serves the status collector registry over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonwraymond/statuskit/config"
	"github.com/jonwraymond/statuskit/observe"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "statusd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.ServiceVersion == "dev" {
		cfg.ServiceVersion = Version
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observe.NewObserver(ctx, cfg.Observe())
	if err != nil {
		return err
	}
	logger := obs.Logger()

	router, err := newRouter(ctx, cfg, obs)
	if err != nil {
		return errors.Join(err, obs.Shutdown(context.Background()))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening",
			observe.Field{Key: "addr", Value: cfg.Addr},
			observe.Field{Key: "base_path", Value: cfg.BasePath},
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(err, obs.Shutdown(context.Background()))
		}
	case <-ctx.Done():
		logger.Info(context.Background(), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return errors.Join(srv.Shutdown(shutdownCtx), obs.Shutdown(shutdownCtx))
}
