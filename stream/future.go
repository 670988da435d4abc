package stream

import (
	"context"
	"github.com/saylorsolutions/eventsys/event"
	"sync"
)

// Pending is a producer-side future for a single dispatch.
// Its [Pending.Callback] resolves it when a response is delivered.
//
// A [CommandStream] never calls a [Callback] when dispatch fails, so a Pending might never be resolved.
// Always await it with a context that has a deadline, or one that will be cancelled.
type Pending[T any] struct {
	done    chan struct{}
	resolve sync.Once
	caller  T
	resp    event.Response
}

func NewPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// Callback returns a [Callback] that resolves this [Pending].
// Only the first delivery is kept.
func (p *Pending[T]) Callback() Callback[T] {
	return func(caller T, resp event.Response) {
		p.resolve.Do(func() {
			p.caller = caller
			p.resp = resp
			close(p.done)
		})
	}
}

// Done returns a channel that's closed once a response is delivered.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until a response is delivered or ctx is done.
// If ctx is done first, then the zero values are returned along with the context's error.
func (p *Pending[T]) Await(ctx context.Context) (T, event.Response, error) {
	select {
	case <-p.done:
		return p.caller, p.resp, nil
	case <-ctx.Done():
		var mt T
		return mt, event.Response{}, ctx.Err()
	}
}

// Call submits req with sender, and returns a [Pending] that's resolved if a response is delivered.
func Call[T any](sender *Sender[T], caller T, req *event.Request) *Pending[T] {
	p := NewPending[T]()
	sender.Send(NewStreamData(caller, req, p.Callback()))
	return p
}
