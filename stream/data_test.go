package stream

import (
	"errors"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNewStreamData(t *testing.T) {
	noop := func(int, event.Response) {}
	assert.Panics(t, func() {
		NewStreamData[int](1, nil, noop)
	})
	assert.Panics(t, func() {
		NewStreamData(1, event.MustRequest("echo", nil), nil)
	})

	req := event.MustRequest("echo", nil)
	data := NewStreamData(5, req, noop)
	assert.Equal(t, 5, data.Caller())
	got, ok := data.take()
	assert.True(t, ok)
	assert.Same(t, req, got)
	got, ok = data.take()
	assert.False(t, ok, "The request should only be taken once")
	assert.Nil(t, got)
}

func TestDispatchError(t *testing.T) {
	cause := errors.New("boom")
	err := newDispatchError(ErrHandlerInvocation, event.MustRequest("echo", nil, event.WithID("r1")), cause)
	assert.Equal(t, "handler invocation failed for event 'echo' (request 'r1'): boom", err.Error())
	assert.ErrorIs(t, err, ErrHandlerInvocation)
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrUnroutable))

	consumed := newDispatchError(ErrRequestConsumed, nil, nil)
	assert.Equal(t, "request already consumed", consumed.Error())
	assert.ErrorIs(t, consumed, ErrRequestConsumed)
}

func TestQueue(t *testing.T) {
	q := newQueue[int](2)
	assert.True(t, q.acquire())
	for i := 1; i <= 3; i++ {
		assert.True(t, q.push(i))
	}
	assert.Equal(t, 3, q.len())

	val, ok, drained := q.pop()
	assert.True(t, ok)
	assert.False(t, drained)
	assert.Equal(t, 1, val)

	q.release()
	assert.False(t, q.push(4), "Push should fail once the last sender is released")
	assert.False(t, q.acquire())

	for _, expected := range []int{2, 3} {
		val, ok, drained = q.pop()
		assert.True(t, ok)
		assert.False(t, drained, "Should not be drained while values remain")
		assert.Equal(t, expected, val)
	}
	val, ok, drained = q.pop()
	assert.False(t, ok)
	assert.True(t, drained)
	assert.Equal(t, 0, val)
}

func TestSender_Close(t *testing.T) {
	q := newQueue[*StreamData[int]](0)
	a := newSender(q)
	b := a.Clone()
	a.Close()
	a.Close()
	assert.True(t, q.push(nil), "Queue should remain open while a clone is open")
	_, _, _ = q.pop()

	b.Close()
	_, ok, drained := q.pop()
	assert.False(t, ok)
	assert.True(t, drained)

	c := b.Clone()
	assert.NotPanics(t, func() {
		c.Send(NewStreamData(1, event.MustRequest("echo", nil), func(int, event.Response) {}))
		c.Close()
	})
	assert.Equal(t, 0, q.len())
}
