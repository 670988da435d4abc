package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	DefaultShutdownTimeout = 5 * time.Second
)

// ListenAndServe listens on srv.Addr and serves until ctx is done, then shuts srv down gracefully.
// In-flight requests are given shutdownTimeout to complete, or [DefaultShutdownTimeout] if it's <= 0.
func ListenAndServe(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	return serveCtx(ctx, srv.ListenAndServe, srv.Shutdown, shutdownTimeout)
}

// Serve is the same as [ListenAndServe], but accepts connections from an existing listener.
func Serve(ctx context.Context, srv *http.Server, l net.Listener, shutdownTimeout time.Duration) error {
	return serveCtx(ctx, func() error {
		return srv.Serve(l)
	}, srv.Shutdown, shutdownTimeout)
}

func serveCtx(ctx context.Context, serveFn func() error, shutdownFn func(context.Context) error, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	srvErrs := make(chan error, 1)
	go func() {
		defer close(srvErrs)
		if err := serveFn(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErrs <- err
		}
	}()

	select {
	case err, more := <-srvErrs:
		if !more {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return shutdownFn(timeout)
	}
}
