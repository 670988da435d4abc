package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/stream"
	flag "github.com/spf13/pflag"
	"io"
	"sync"
)

var (
	errNoResponse = errors.New("no response")
)

func sendCmd(a *app, flags *flag.FlagSet) error {
	kind, err := event.ParseKind(mustGet(flags.GetString("event")))
	if err != nil {
		return newUsageError("--event is required")
	}
	if flags.NArg() > 1 {
		return newUsageError("expected at most one payload argument, got %d", flags.NArg())
	}
	var payload []byte
	switch arg := flags.Arg(0); arg {
	case "-":
		payload, err = io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read payload from stdin: %w", err)
		}
	default:
		payload = []byte(arg)
	}

	conf, log, routes, closeLog, err := a.setup(flags)
	if err != nil {
		return err
	}
	defer closeLog()
	timeout := mustGet(flags.GetDuration("timeout"))
	if timeout <= 0 {
		timeout = conf.CallTimeout
	}
	req, err := event.NewRequest(kind, payload, event.WithID(mustGet(flags.GetString("id"))))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(a.ctx, timeout)
	defer cancel()
	var (
		failMux sync.Mutex
		failure error
	)
	cmds, err := stream.New[string](
		stream.Logger(log),
		stream.ErrorHandler(func(err error) {
			failMux.Lock()
			failure = err
			failMux.Unlock()
			cancel()
		}),
	)
	if err != nil {
		return err
	}
	if err := cmds.ModuleServiceMap(routes); err != nil {
		return err
	}
	go func() {
		_ = cmds.Run(ctx)
	}()
	sender := cmds.Sender()
	defer sender.Close()
	defer cmds.Close()

	_, resp, err := stream.Call(sender, "cli", req).Await(ctx)
	if err != nil {
		failMux.Lock()
		defer failMux.Unlock()
		if failure != nil {
			return fmt.Errorf("%w: %w", errNoResponse, failure)
		}
		return fmt.Errorf("%w within %s: %w", errNoResponse, timeout, err)
	}
	if resp.Status != event.StatusOK {
		log.Warn("Handler responded with a non-ok status", "event", kind, "request_id", req.ID(), "status", resp.Status)
	}
	_, err = fmt.Fprintln(a.stdout, string(resp.Payload))
	return err
}
