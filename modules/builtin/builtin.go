// Package builtin provides simple modules that need no external resources.
// They're useful for smoke testing a deployment, and as examples of the [module.Module] contract.
package builtin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/modules"
	"time"
)

const (
	DefaultFailMessage = "forced failure"
)

var (
	ErrForcedFailure = errors.New("module failed on purpose")
)

// Echo responds with the request payload unchanged.
func Echo() module.Module {
	return module.Func(func(_ context.Context, req *event.Request) (event.Response, error) {
		return event.OK(req.Payload()), nil
	})
}

// Upper responds with the request payload upper-cased.
func Upper() module.Module {
	return module.Func(func(_ context.Context, req *event.Request) (event.Response, error) {
		return event.OK(bytes.ToUpper(req.Payload())), nil
	})
}

// Delay waits for d before echoing the request payload.
// If ctx is done first, then the invocation fails with the context's error.
func Delay(d time.Duration) module.Module {
	if d < 0 {
		d = 0
	}
	return module.Func(func(ctx context.Context, req *event.Request) (event.Response, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return event.Response{}, ctx.Err()
		case <-timer.C:
			return event.OK(req.Payload()), nil
		}
	})
}

// Fail always fails invocation with [ErrForcedFailure] and the given message.
func Fail(message string) module.Module {
	if len(message) == 0 {
		message = DefaultFailMessage
	}
	return module.Func(func(_ context.Context, req *event.Request) (event.Response, error) {
		return event.Response{}, fmt.Errorf("%w: %s", ErrForcedFailure, message)
	})
}

type DelayOptions struct {
	Duration time.Duration `yaml:"duration"`
}

type FailOptions struct {
	Message string `yaml:"message"`
}

func NewEcho(opts modules.Options) (module.Module, error) {
	if err := opts.Decode(&struct{}{}); err != nil {
		return nil, err
	}
	return Echo(), nil
}

func NewUpper(opts modules.Options) (module.Module, error) {
	if err := opts.Decode(&struct{}{}); err != nil {
		return nil, err
	}
	return Upper(), nil
}

func NewDelay(opts modules.Options) (module.Module, error) {
	var conf DelayOptions
	if err := opts.Decode(&conf); err != nil {
		return nil, err
	}
	if conf.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", modules.ErrInvalidOptions)
	}
	return Delay(conf.Duration), nil
}

func NewFail(opts modules.Options) (module.Module, error) {
	var conf FailOptions
	if err := opts.Decode(&conf); err != nil {
		return nil, err
	}
	return Fail(conf.Message), nil
}
