package stream

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"strings"
)

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrAlreadyStarted      = errors.New("command stream already started")
	ErrUnroutable          = errors.New("unroutable event")
	ErrHandlerConstruction = errors.New("handler construction failed")
	ErrHandlerInvocation   = errors.New("handler invocation failed")
	ErrRequestConsumed     = errors.New("request already consumed")
	ErrCallbackPanic       = errors.New("callback panicked")
	ErrPanic               = errors.New("recovered panic")
	ErrNilHandler          = errors.New("module returned a nil handler")
)

// DispatchError is reported when a single dispatch fails.
// It unwraps to both its Reason (one of the sentinel errors in this package) and its Cause, if any, so either may be matched with [errors.Is].
type DispatchError struct {
	Kind      event.Kind
	RequestID string
	Reason    error
	Cause     error
}

func newDispatchError(reason error, req *event.Request, cause error) *DispatchError {
	err := &DispatchError{Reason: reason, Cause: cause}
	if req != nil {
		err.Kind = req.Kind()
		err.RequestID = req.ID()
	}
	return err
}

func (e *DispatchError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Reason.Error())
	if len(e.Kind) > 0 {
		buf.WriteString(fmt.Sprintf(" for event '%s' (request '%s')", e.Kind, e.RequestID))
	}
	if e.Cause != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Cause.Error())
	}
	return buf.String()
}

func (e *DispatchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Cause}
}
