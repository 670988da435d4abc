// Package slogx provides [log/slog] handlers and the constructor used to set up a process logger.
package slogx
