package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// runtimeConfig carries everything runServer needs to bring a handler up
// and tear it down again.
type runtimeConfig struct {
	handler         http.Handler
	address         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	baseCtx         context.Context
}

func (cfg *runtimeConfig) normalize() {
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.shutdownTimeout == 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.baseCtx == nil {
		cfg.baseCtx = context.Background()
	}
}

// runServer binds the listener, runs startup hooks, serves until the base
// context is cancelled or SIGINT/SIGTERM arrives, then drains within
// shutdownTimeout. Both app.Run and anvil.Run funnel through here.
func runServer(cfg runtimeConfig) error {
	cfg.normalize()

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Bind before running hooks so hook failures don't leave a half-started
	// process holding no port, and so the log line shows the resolved address.
	ln, err := net.Listen("tcp", cfg.address)
	if err != nil {
		return err
	}

	// Startup hooks (job workers, cache warmups) run before the first request.
	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			_ = ln.Close()
			return err
		}
	}

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		cfg.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		// Serve failed outright; nothing to drain.
		return err
	case <-ctx.Done():
	}

	cfg.logger.Info("shutting down server")
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer drainCancel()

	errs := []error{}
	if err := server.Shutdown(drainCtx); err != nil {
		errs = append(errs, err)
	}

	// Shutdown hooks run even when the drain timed out; they share its
	// remaining deadline.
	for _, hook := range cfg.shutdownHooks {
		if err := hook(drainCtx); err != nil {
			errs = append(errs, err)
			cfg.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		cfg.logger.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	cfg.logger.Info("shutdown completed")
	return nil
}
