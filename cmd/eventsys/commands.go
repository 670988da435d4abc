package main

import (
	"errors"
	"fmt"
	flag "github.com/spf13/pflag"
	"io"
	"slices"
	"strings"
)

var (
	errUnknownCommand = errors.New("unknown command")
	helpPatterns      = []string{"--help", "-h", "help"}
)

// usageError signals that usage information should be shown along with the error.
type usageError struct {
	wrapped error
}

func (e *usageError) Error() string {
	return "usage error: " + e.wrapped.Error()
}

func (e *usageError) Unwrap() error {
	return e.wrapped
}

func newUsageError(format string, args ...any) error {
	return &usageError{wrapped: fmt.Errorf(format, args...)}
}

// mustGet is used with a [flag.FlagSet] getter to panic if the flag is not defined, or is not the right type.
func mustGet[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

type commandFunc = func(a *app, flags *flag.FlagSet) error

type command struct {
	key        string
	shortUsage string
	usage      string
	flags      *flag.FlagSet
	exec       commandFunc
}

func newCommand(key, shortUsage, usage string, exec commandFunc) *command {
	fs := flag.NewFlagSet(key, flag.ContinueOnError)
	fs.BoolP("help", "h", false, "Prints this usage information")
	fs.SetInterspersed(false)
	return &command{
		key:        key,
		shortUsage: shortUsage,
		usage:      usage,
		flags:      fs,
		exec:       exec,
	}
}

func (c *command) printUsage(out io.Writer, parent string) {
	var buf strings.Builder
	buf.WriteString(c.shortUsage + "\n\nUSAGE:\n  " + parent + " " + c.key)
	if len(c.usage) > 0 {
		buf.WriteString(" " + c.usage)
	}
	buf.WriteString("\n\nFLAGS:\n")
	buf.WriteString(c.flags.FlagUsages())
	_, _ = fmt.Fprint(out, buf.String())
}

func (c *command) run(a *app, parent string, args []string) error {
	c.flags.SetOutput(io.Discard)
	if err := c.flags.Parse(args); err != nil {
		return newUsageError("%s: %w", c.key, err)
	}
	if mustGet(c.flags.GetBool("help")) {
		c.printUsage(a.stderr, parent)
		return nil
	}
	if err := c.exec(a, c.flags); err != nil {
		var uerr *usageError
		if errors.As(err, &uerr) {
			return newUsageError("%s: %w", c.key, uerr.wrapped)
		}
		return err
	}
	return nil
}

type commandSet struct {
	name     string
	commands map[string]*command
}

func newCommandSet(name string) *commandSet {
	return &commandSet{name: name, commands: map[string]*command{}}
}

func (s *commandSet) add(cmd *command) *command {
	s.commands[cmd.key] = cmd
	return cmd
}

func (s *commandSet) exec(a *app, args []string) error {
	if len(args) == 0 {
		return newUsageError("%w: no command given", errUnknownCommand)
	}
	if slices.Contains(helpPatterns, args[0]) {
		s.printUsage(a.stderr)
		return nil
	}
	cmd, ok := s.commands[strings.ToLower(args[0])]
	if !ok {
		return newUsageError("%w: %s", errUnknownCommand, args[0])
	}
	return cmd.run(a, s.name, args[1:])
}

func (s *commandSet) printUsage(out io.Writer) {
	keys := make([]string, 0, len(s.commands))
	maxLen := 0
	for key := range s.commands {
		keys = append(keys, key)
		maxLen = max(maxLen, len(key))
	}
	slices.Sort(keys)
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("USAGE:\n  %s COMMAND [FLAGS...] [ARGS...]\n\nCOMMANDS:\n", s.name))
	fmtStr := fmt.Sprintf("  %%-%ds\t%%s\n", maxLen)
	for _, key := range keys {
		buf.WriteString(fmt.Sprintf(fmtStr, key, s.commands[key].shortUsage))
	}
	_, _ = fmt.Fprint(out, buf.String())
}
