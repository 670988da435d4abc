package slogx

import (
	"fmt"
	"golang.org/x/term"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options describes how a process logger should be created with [New].
type Options struct {
	Out   io.Writer  // Out is where log records are written. Defaults to [os.Stderr].
	Level slog.Level // Level is the minimum level written to Out.
	// JSON forces JSON output.
	// Otherwise, text is written when Out is a terminal and JSON when it isn't.
	JSON bool
	// File is an optional second sink that always receives JSON records at [slog.LevelDebug] and above.
	File io.Writer
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// New creates a logger from [Options].
// The handler is wrapped with [NewDedupeHandler], so repeated With calls replace earlier values rather than duplicating keys.
func New(opts Options) *slog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var handler slog.Handler
	if opts.JSON || !IsTerminal(out) {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	if opts.File != nil {
		handler = MergeHandlers(handler, slog.NewJSONHandler(opts.File, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(NewDedupeHandler(handler))
}

// ParseLevel interprets a level name (debug, info, warn, or error), ignoring case and surrounding whitespace.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s'", s)
	}
	return level, nil
}
