package stream

import (
	"github.com/saylorsolutions/eventsys/event"
	"sync"
)

// Callback delivers a response to the producer that submitted a [StreamData].
// It's called at most once, and only when the request was handled successfully.
type Callback[T any] func(caller T, resp event.Response)

// StreamData is the unit of work submitted to a [CommandStream].
// It combines a caller value of any type, the request to dispatch, and the [Callback] that receives the response.
//
// Ownership of the caller value passes to the [CommandStream] when the StreamData is sent, and is handed back through the [Callback].
type StreamData[T any] struct {
	caller   T
	callback Callback[T]

	mux     sync.Mutex
	request *event.Request
}

// NewStreamData creates a new [StreamData].
// Passing a nil request or callback will panic.
func NewStreamData[T any](caller T, req *event.Request, callback Callback[T]) *StreamData[T] {
	if req == nil {
		panic("nil request")
	}
	if callback == nil {
		panic("nil callback")
	}
	return &StreamData[T]{
		caller:   caller,
		callback: callback,
		request:  req,
	}
}

// Caller returns the caller value given to [NewStreamData].
func (d *StreamData[T]) Caller() T {
	return d.caller
}

// take removes the request, so that only the first call returns it.
func (d *StreamData[T]) take() (*event.Request, bool) {
	d.mux.Lock()
	defer d.mux.Unlock()
	req := d.request
	d.request = nil
	return req, req != nil
}
