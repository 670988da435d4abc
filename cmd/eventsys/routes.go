package main

import (
	"fmt"
	flag "github.com/spf13/pflag"
	"text/tabwriter"
)

func routesCmd(a *app, flags *flag.FlagSet) error {
	if flags.NArg() > 0 {
		return newUsageError("unexpected arguments: %v", flags.Args())
	}
	conf, _, _, closeLog, err := a.setup(flags)
	if err != nil {
		return err
	}
	defer closeLog()
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "EVENT\tMODULE")
	for _, route := range conf.Routes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", route.Event, route.Module)
	}
	return tw.Flush()
}
