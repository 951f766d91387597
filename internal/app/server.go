package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
)

// Run listens on app.server.http.address and serves the API until ctx is
// cancelled or the server fails. It does not release resources; call Stop.
func (a *App) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.httpServer.Addr, err)
	}

	return a.Serve(ctx, l)
}

// Serve runs the API on l until ctx is cancelled or the server fails.
func (a *App) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server listening", "address", l.Addr().String())
		errCh <- a.httpServer.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutdown requested")
		return nil
	}
}

// Stop drains in-flight requests, waits for background workers and runs the
// closers in registration order.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
		}
	}

	if a.goroutine != nil {
		slog.InfoContext(ctx, "waiting for background workers")
		if err := a.goroutine.Wait(); err != nil {
			slog.ErrorContext(ctx, "background worker failed", "error", err)
		}
	}

	for _, c := range a.closers {
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application stopped")
}
