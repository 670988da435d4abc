package main

import (
	"context"
	"errors"
	"github.com/saylorsolutions/eventsys/gateway"
	"github.com/saylorsolutions/eventsys/signalx"
	"github.com/saylorsolutions/eventsys/stream"
	flag "github.com/spf13/pflag"
	"net/http"
	"os"
	"syscall"
	"time"
)

func serveCmd(a *app, flags *flag.FlagSet) error {
	if flags.NArg() > 0 {
		return newUsageError("unexpected arguments: %v", flags.Args())
	}
	conf, log, routes, closeLog, err := a.setup(flags)
	if err != nil {
		return err
	}
	defer closeLog()
	if addr := mustGet(flags.GetString("addr")); len(addr) > 0 {
		conf.Addr = addr
	}

	cmds, err := stream.New[string](stream.Logger(log))
	if err != nil {
		return err
	}
	if err := cmds.ModuleServiceMap(routes); err != nil {
		return err
	}
	gw, err := gateway.New(cmds, routes, gateway.Logger(log), gateway.CallTimeout(conf.CallTimeout))
	if err != nil {
		return err
	}

	// The dispatch loop keeps running after a shutdown signal, so requests already accepted by the gateway can be answered.
	runErrs := make(chan error, 1)
	go func() {
		runErrs <- cmds.Run(context.Background())
	}()

	ctx, cancel := signalx.ShutdownCtx(a.ctx, log, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	srv := &http.Server{
		Addr:              conf.Addr,
		Handler:           gw,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("Serving event gateway", "addr", conf.Addr, "routes", routes.Len(), "call_timeout", conf.CallTimeout)
	srvErr := gateway.ListenAndServe(ctx, srv, conf.CallTimeout+time.Second)

	gw.Close()
	cmds.Close()
	runErr := <-runErrs
	stats := cmds.Stats()
	log.Info("Event gateway stopped",
		"received", stats.Received,
		"delivered", stats.Delivered,
		"failed", stats.Failed,
		"in_flight", stats.InFlight,
	)
	return errors.Join(srvErr, runErr)
}
