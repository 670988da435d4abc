package stream

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"log/slog"
)

// commandStreamService dispatches a single [StreamData].
// It holds nothing that changes after the [CommandStream] starts, so one instance is shared by every dispatch goroutine.
type commandStreamService[T any] struct {
	modules *module.ServiceMap
	log     *slog.Logger
	onError func(error)
	stats   *stats
}

func (s *commandStreamService[T]) call(ctx context.Context, data *StreamData[T]) {
	defer s.stats.inFlight.Add(-1)
	req, ok := data.take()
	if !ok {
		s.fail(ctx, newDispatchError(ErrRequestConsumed, nil, nil))
		return
	}
	resp, err := s.resolve(ctx, req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.deliver(ctx, req, data, resp)
}

func (s *commandStreamService[T]) resolve(ctx context.Context, req *event.Request) (event.Response, *DispatchError) {
	mod, ok := s.modules.Get(req.Kind())
	if !ok {
		return event.Response{}, newDispatchError(ErrUnroutable, req, nil)
	}
	handler, err := build(ctx, mod, req.ID())
	if err != nil {
		return event.Response{}, newDispatchError(ErrHandlerConstruction, req, err)
	}
	resp, err := invoke(ctx, handler, req)
	if err != nil {
		return event.Response{}, newDispatchError(ErrHandlerInvocation, req, err)
	}
	return resp, nil
}

func build(ctx context.Context, mod module.Module, config string) (handler module.Handler, err error) {
	defer func() {
		if r := recover(); r != nil {
			handler = nil
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	handler, err = mod.Build(ctx, config)
	if err == nil && handler == nil {
		err = ErrNilHandler
	}
	return handler, err
}

func invoke(ctx context.Context, handler module.Handler, req *event.Request) (resp event.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = event.Response{}
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return handler.Invoke(ctx, req)
}

func (s *commandStreamService[T]) deliver(ctx context.Context, req *event.Request, data *StreamData[T], resp event.Response) {
	s.stats.delivered.Add(1)
	defer func() {
		if r := recover(); r != nil {
			// The callback has already been invoked, so this is only reported.
			s.report(ctx, newDispatchError(ErrCallbackPanic, req, fmt.Errorf("%w: %v", ErrPanic, r)))
		}
	}()
	data.callback(data.caller, resp)
}

func (s *commandStreamService[T]) fail(ctx context.Context, err *DispatchError) {
	s.stats.failed.Add(1)
	s.report(ctx, err)
}

func (s *commandStreamService[T]) report(ctx context.Context, err *DispatchError) {
	s.log.ErrorContext(ctx, "Failed to dispatch event", "event", err.Kind, "request_id", err.RequestID, "error", err)
	if s.onError != nil {
		s.onError(err)
	}
}
