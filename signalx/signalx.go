package signalx

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
)

// Exit is called when a second signal arrives. It's a variable so it can be replaced in tests.
var Exit = os.Exit

// ShutdownCtx will set up a context that's cancelled when any of the given signals is received.
// The first signal is logged and cancels the context, giving the process a chance to drain.
// If a second signal is received before the process exits, then [Exit] is called with a non-zero exit code.
// Calling the returned cancel function stops listening for signals.
func ShutdownCtx(parent context.Context, log *slog.Logger, signals ...os.Signal) (context.Context, context.CancelFunc) {
	if len(signals) == 0 {
		panic("no signals passed to ShutdownCtx")
	}
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	stop := make(chan struct{})
	var once sync.Once
	stopFn := func() {
		once.Do(func() {
			close(stop)
		})
		cancel()
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signals...)
	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			log.Info("Shutting down, send again to exit immediately", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			return
		}
		select {
		case sig := <-sigs:
			select {
			case <-stop:
				return
			default:
			}
			log.Warn("Exiting immediately", "signal", sig.String())
			Exit(1)
		case <-stop:
		}
	}()
	return ctx, stopFn
}
