package slogx

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

var _ slog.Handler = (*DedupeHandler)(nil)

// DedupeHandler keeps a single value for each attribute key.
// When a key is added again, through With or in a log call, the newer value replaces the older one in place.
//
// Groups are flattened into dotted key prefixes instead of being passed to the wrapped handler.
// A JSON handler will log WithGroup("module").Info("msg", "name", "echo") as "module.name":"echo", not as a nested "module" object.
type DedupeHandler struct {
	group   string
	attrSet map[string]bool
	attrs   []slog.Attr
	impl    slog.Handler
}

func NewDedupeHandler(impl slog.Handler) slog.Handler {
	if impl == nil {
		panic("nil implementing handler")
	}
	return &DedupeHandler{
		attrSet: map[string]bool{},
		impl:    impl,
	}
}

func (s *DedupeHandler) prefix() string {
	if len(s.group) == 0 {
		return ""
	}
	return s.group + "."
}

func (s *DedupeHandler) dupe() *DedupeHandler {
	return &DedupeHandler{
		group:   s.group,
		attrSet: maps.Clone(s.attrSet),
		attrs:   slices.Clone(s.attrs),
		impl:    s.impl,
	}
}

func (s *DedupeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.impl.Enabled(ctx, level)
}

func (s *DedupeHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.NumAttrs() > 0 {
		addtlAttrs := make([]slog.Attr, 0, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			addtlAttrs = append(addtlAttrs, attr)
			return true
		})
		record = slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
		s = s.WithAttrs(addtlAttrs).(*DedupeHandler)
	}
	return s.impl.WithAttrs(s.attrs).Handle(ctx, record)
}

func (s *DedupeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	cp := s.dupe()
	prefix := cp.prefix()
	for _, attr := range attrs {
		attr.Key = prefix + attr.Key
		if !cp.attrSet[attr.Key] {
			cp.attrs = append(cp.attrs, attr)
			cp.attrSet[attr.Key] = true
			continue
		}
		i := slices.IndexFunc(cp.attrs, func(existing slog.Attr) bool {
			return existing.Key == attr.Key
		})
		cp.attrs[i] = attr
	}
	return cp
}

func (s *DedupeHandler) WithGroup(name string) slog.Handler {
	cp := s.dupe()
	cp.group = cp.prefix() + name
	return cp
}
