package module

import (
	"context"
	"github.com/saylorsolutions/eventsys/event"
)

// Module produces a fresh [Handler] for each request routed to it.
// The config parameter is the ID of the request being handled.
//
// A Module should be stateless with respect to individual requests, since it's shared by every concurrent dispatch.
type Module interface {
	Build(ctx context.Context, config string) (Handler, error)
}

// Handler transforms a single [event.Request] into an [event.Response].
// A Handler is used for exactly one request, and is discarded afterward.
type Handler interface {
	Invoke(ctx context.Context, req *event.Request) (event.Response, error)
}

// BuildFunc is a function that implements the [Module] interface.
type BuildFunc func(ctx context.Context, config string) (Handler, error)

func (f BuildFunc) Build(ctx context.Context, config string) (Handler, error) {
	return f(ctx, config)
}

// HandlerFunc is a function that implements the [Handler] interface.
type HandlerFunc func(ctx context.Context, req *event.Request) (event.Response, error)

func (f HandlerFunc) Invoke(ctx context.Context, req *event.Request) (event.Response, error) {
	return f(ctx, req)
}

// Func creates a [Module] from a [HandlerFunc] for the simple case where a handler needs no per-request setup.
// Each call to Build returns a new [Handler] value wrapping fn.
func Func(fn HandlerFunc) Module {
	if fn == nil {
		panic("nil handler function")
	}
	return BuildFunc(func(_ context.Context, _ string) (Handler, error) {
		return HandlerFunc(fn), nil
	})
}
