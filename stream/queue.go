package stream

import (
	"sync"
	"sync/atomic"
)

// queue is an unbounded, concurrency-safe FIFO with a single consumer.
// It closes itself when the last sender handle is released, after which pushes are dropped.
type queue[T any] struct {
	mux     sync.Mutex
	values  []T
	senders int
	closed  bool

	// signal wakes the consumer after a push or close. The consumer always re-checks state after waking.
	signal chan struct{}
}

func newQueue[T any](initialBuffer int) *queue[T] {
	q := &queue[T]{signal: make(chan struct{}, 1)}
	if initialBuffer > 0 {
		q.values = make([]T, 0, initialBuffer)
	}
	return q
}

func (q *queue[T]) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// push appends val to the tail, returning false if the queue is already closed.
func (q *queue[T]) push(val T) bool {
	q.mux.Lock()
	if q.closed {
		q.mux.Unlock()
		return false
	}
	q.values = append(q.values, val)
	q.mux.Unlock()
	q.notify()
	return true
}

// pop removes the head of the queue.
// The drained return is true only when the queue is both closed and empty, meaning no more values will ever arrive.
func (q *queue[T]) pop() (val T, ok bool, drained bool) {
	q.mux.Lock()
	defer q.mux.Unlock()
	if len(q.values) == 0 {
		return val, false, q.closed
	}
	val = q.values[0]
	var mt T
	q.values[0] = mt
	q.values = q.values[1:]
	return val, true, false
}

func (q *queue[T]) len() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return len(q.values)
}

func (q *queue[T]) acquire() bool {
	q.mux.Lock()
	defer q.mux.Unlock()
	if q.closed {
		return false
	}
	q.senders++
	return true
}

func (q *queue[T]) release() {
	q.mux.Lock()
	q.senders--
	closing := q.senders <= 0 && !q.closed
	if closing {
		q.closed = true
	}
	q.mux.Unlock()
	if closing {
		q.notify()
	}
}

// Sender is a handle used to submit [StreamData] to a [CommandStream].
// Any number of Sender handles may be used concurrently.
// The [CommandStream] stops once every handle has been closed and all submitted data has been dispatched.
type Sender[T any] struct {
	q      *queue[*StreamData[T]]
	closed atomic.Bool
}

func newSender[T any](q *queue[*StreamData[T]]) *Sender[T] {
	s := &Sender[T]{q: q}
	if !q.acquire() {
		// The queue is already closed, so this handle can never deliver anything.
		s.closed.Store(true)
	}
	return s
}

// Send submits data for dispatch without blocking.
// There's no indication of whether data was accepted. If this handle is closed, or the [CommandStream] has shut down, then data is dropped.
func (s *Sender[T]) Send(data *StreamData[T]) {
	if data == nil || s.closed.Load() {
		return
	}
	_ = s.q.push(data)
}

// Clone creates an independent handle to the same [CommandStream].
// Cloning a closed handle returns a closed handle.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		closed := &Sender[T]{q: s.q}
		closed.closed.Store(true)
		return closed
	}
	return newSender(s.q)
}

// Close releases this handle. Calling Close more than once has no further effect.
func (s *Sender[T]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.q.release()
	}
}
