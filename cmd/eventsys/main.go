// Command eventsys routes events to modules, either in-process with the send command, or for HTTP clients with the serve command.
package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/config"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/modules/catalog"
	"github.com/saylorsolutions/eventsys/slogx"
	flag "github.com/spf13/pflag"
	"io"
	"log/slog"
	"os"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type app struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	env    config.Environment
}

func main() {
	a := &app{
		ctx:    context.Background(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		env:    config.OSEnvironment(),
	}
	os.Exit(a.run(os.Args[1:]))
}

func commands() *commandSet {
	set := newCommandSet("eventsys")

	serve := set.add(newCommand("serve", "Runs the dispatcher with an HTTP gateway until interrupted", "[--config FILE] [--addr ADDR]", serveCmd))
	serve.flags.StringP("config", "c", "", "Path to a YAML config file")
	serve.flags.StringP("addr", "a", "", "Overrides the gateway listen address")

	send := set.add(newCommand("send", "Dispatches a single event in-process and prints the response", "[--config FILE] --event KIND [--id ID] [--timeout DURATION] [PAYLOAD | -]", sendCmd))
	send.flags.StringP("config", "c", "", "Path to a YAML config file")
	send.flags.StringP("event", "e", "", "Kind of event to send")
	send.flags.String("id", "", "Request ID to use instead of a generated one")
	send.flags.DurationP("timeout", "t", 0, "How long to wait for a response, defaults to the configured call timeout")

	routes := set.add(newCommand("routes", "Lists configured event routes", "[--config FILE]", routesCmd))
	routes.flags.StringP("config", "c", "", "Path to a YAML config file")

	return set
}

func (a *app) run(args []string) int {
	set := commands()
	err := set.exec(a, args)
	if err == nil {
		return exitOK
	}
	_, _ = fmt.Fprintln(a.stderr, err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		if errors.Is(err, errUnknownCommand) {
			set.printUsage(a.stderr)
		}
		return exitUsage
	}
	return exitError
}

// setup loads configuration, creates the process logger, and builds the routing table.
// The returned function closes the log file, if one was opened.
func (a *app) setup(flags *flag.FlagSet) (config.Config, *slog.Logger, *module.ServiceMap, func(), error) {
	noop := func() {}
	conf, err := config.Load(mustGet(flags.GetString("config")), a.env)
	if err != nil {
		return config.Config{}, nil, nil, noop, err
	}
	logOpts := slogx.Options{
		Out:   a.stderr,
		Level: conf.LogLevel(),
		JSON:  conf.Log.JSON,
	}
	closer := noop
	if len(conf.Log.File) > 0 {
		f, err := os.OpenFile(conf.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return config.Config{}, nil, nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		logOpts.File = f
		closer = func() {
			_ = f.Close()
		}
	}
	log := slogx.New(logOpts)
	routes, err := catalog.Default(log).ServiceMap(conf.Routes)
	if err != nil {
		closer()
		return config.Config{}, nil, nil, noop, err
	}
	return conf, log, routes, closer, nil
}
