package gateway

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestServeCtx(t *testing.T) {
	t.Run("Shutdown on cancel", func(t *testing.T) {
		var (
			srv                = make(chan struct{})
			listened, shutdown atomic.Bool
			serveFn            = func() error {
				listened.Store(true)
				<-srv
				return http.ErrServerClosed
			}
			shutdownFn = func(ctx context.Context) error {
				shutdown.Store(true)
				close(srv)
				return nil
			}
		)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		assert.NoError(t, serveCtx(ctx, serveFn, shutdownFn, 0))
		assert.True(t, listened.Load(), "Serve function should have been called")
		assert.True(t, shutdown.Load(), "Shutdown function should have been called")
	})
	t.Run("Server error propagated", func(t *testing.T) {
		var (
			shutdown    atomic.Bool
			errListen   = errors.New("test error")
			errListenFn = func() error {
				return errListen
			}
			shutdownFn = func(ctx context.Context) error {
				shutdown.Store(true)
				return nil
			}
		)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.ErrorIs(t, serveCtx(ctx, errListenFn, shutdownFn, 0), errListen)
		assert.False(t, shutdown.Load(), "Shutdown should not be called when serving fails")
	})
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, srv, l, time.Second)
	}()

	resp, err := http.Get("http://" + l.Addr().String())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Server should have shut down")
	}
}
