// Package catalog resolves module names used in configuration to module constructors.
package catalog

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/config"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/modules"
	"github.com/saylorsolutions/eventsys/modules/builtin"
	"github.com/saylorsolutions/eventsys/modules/jsonmod"
	"github.com/saylorsolutions/eventsys/modules/luamod"
	"log/slog"
	"slices"
	"strings"
)

var (
	ErrUnknownModule = errors.New("unknown module")
)

// Catalog maps module names to [modules.Constructor] functions.
//
// Note that a Catalog is not concurrency safe while constructors are being added.
type Catalog struct {
	ctors map[string]modules.Constructor
}

func New() *Catalog {
	return &Catalog{ctors: map[string]modules.Constructor{}}
}

// Default returns a [Catalog] with every module provided by eventsys.
// Modules that produce log output use log, or [slog.Default] if log is nil.
func Default(log *slog.Logger) *Catalog {
	return New().
		Add("echo", builtin.NewEcho).
		Add("upper", builtin.NewUpper).
		Add("delay", builtin.NewDelay).
		Add("fail", builtin.NewFail).
		Add("extract", jsonmod.NewExtract).
		Add("set", jsonmod.NewSet).
		Add("lua", luamod.NewWithLogger(log))
}

// Add registers a constructor under name.
// Names are case-insensitive, and adding an empty name, a nil constructor, or the same name twice will panic.
func (c *Catalog) Add(name string, ctor modules.Constructor) *Catalog {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) == 0 {
		panic("empty module name")
	}
	if ctor == nil {
		panic("nil constructor for module " + name)
	}
	if _, ok := c.ctors[name]; ok {
		panic("module " + name + " added twice")
	}
	c.ctors[name] = ctor
	return c
}

// Names returns every registered module name in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.ctors))
	for name := range c.ctors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New creates the named module with the given options.
func (c *Catalog) New(name string, opts modules.Options) (module.Module, error) {
	ctor, ok := c.ctors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownModule, name)
	}
	return ctor(opts)
}

// ServiceMap creates a module for each route and registers it for the route's event kind.
// Every problem is reported together, so a bad configuration can be fixed in one pass.
func (c *Catalog) ServiceMap(routes []config.Route) (*module.ServiceMap, error) {
	var (
		reg  = module.NewRegistry()
		errs []error
	)
	for i, route := range routes {
		mod, err := c.New(route.Module, route.Options)
		if err != nil {
			errs = append(errs, fmt.Errorf("routes[%d] (event '%s'): %w", i, route.Event, err))
			continue
		}
		reg.Register(event.Kind(strings.TrimSpace(route.Event)), mod)
	}
	sm, err := reg.Build()
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sm, nil
}
