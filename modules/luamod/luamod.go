// Package luamod provides modules implemented as Lua scripts.
//
// A script must define a global function named handle, which is called with the event kind, request ID, and payload as strings.
//
//	function handle(kind, id, payload)
//	  return string.upper(payload)
//	end
//
// A string (or number) return value becomes the response payload.
// Returning nil, optionally followed by a message, fails the invocation.
//
// Each request is handled in a fresh Lua state, so scripts can't share data between requests.
// Only the base, table, string, and math libraries are available, and functions that load code from outside the script are removed.
// The print function writes to the module's [slog.Logger] instead of stdout.
package luamod

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/modules"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	HandleFunc     = "handle"
	DefaultTimeout = 5 * time.Second
)

var (
	ErrCompile           = errors.New("failed to compile lua script")
	ErrScript            = errors.New("lua script failed")
	ErrNoHandleFunc      = errors.New("lua script doesn't define a global '" + HandleFunc + "' function")
	ErrHandleFailed      = errors.New("lua handler returned an error")
	ErrUnsupportedResult = errors.New("unsupported lua return value")
	ErrHandlerUsed       = errors.New("lua handler has already been invoked")
)

var blockedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

var _ module.Module = (*Module)(nil)

// Module is a compiled Lua script.
// The compiled form is shared, and each call to Build loads it into a new Lua state.
type Module struct {
	name    string
	proto   *lua.FunctionProto
	timeout time.Duration
	log     *slog.Logger
}

// Compile parses and compiles source, using name in error messages.
// A timeout <= 0 uses [DefaultTimeout], which limits both loading the script and invoking handle.
func Compile(name, source string, timeout time.Duration) (*Module, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrCompile, name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrCompile, name, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Module{
		name:    name,
		proto:   proto,
		timeout: timeout,
		log:     slog.Default(),
	}, nil
}

// WithLogger sets the logger that receives output from the script's print calls.
// A nil logger is ignored.
func (m *Module) WithLogger(log *slog.Logger) *Module {
	if log != nil {
		m.log = log
	}
	return m
}

// CompileFile is the same as [Compile], but reads the script from path.
func CompileFile(path string, timeout time.Duration) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lua script: %w", err)
	}
	return Compile(path, string(data), timeout)
}

func (m *Module) Name() string {
	return m.name
}

func newState(printFn lua.LGFunction) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(printFn))
	return L
}

// Build loads the script into a new Lua state, and returns a [module.Handler] that calls its handle function.
func (m *Module) Build(ctx context.Context, _ string) (module.Handler, error) {
	h := &handler{
		log:     m.log.With("module", m.name),
		timeout: m.timeout,
	}
	L := newState(h.print)
	loadCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	L.SetContext(loadCtx)

	L.Push(L.NewFunctionFromProto(m.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}
	L.SetTop(0)
	fn, ok := L.GetGlobal(HandleFunc).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoHandleFunc
	}
	h.L, h.fn = L, fn
	return h, nil
}

type handler struct {
	L       *lua.LState
	fn      *lua.LFunction
	timeout time.Duration
	log     *slog.Logger
	req     *event.Request
}

// print joins its arguments with tabs, like the standard Lua print.
func (h *handler) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	log := h.log
	if h.req != nil {
		log = log.With("event", h.req.Kind(), "request_id", h.req.ID())
	}
	log.Info(strings.Join(parts, "\t"))
	return 0
}

func (h *handler) Invoke(ctx context.Context, req *event.Request) (event.Response, error) {
	if h.L == nil {
		return event.Response{}, ErrHandlerUsed
	}
	L := h.L
	h.L = nil
	h.req = req
	defer L.Close()

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	L.SetContext(callCtx)

	err := L.CallByParam(lua.P{Fn: h.fn, NRet: 2, Protect: true},
		lua.LString(req.Kind().String()),
		lua.LString(req.ID()),
		lua.LString(string(req.Payload())),
	)
	if err != nil {
		return event.Response{}, fmt.Errorf("%w: %w", ErrScript, err)
	}
	ret, msg := L.Get(-2), L.Get(-1)
	L.Pop(2)

	switch val := ret.(type) {
	case lua.LString:
		return event.Text(string(val)), nil
	case lua.LNumber:
		return event.Text(val.String()), nil
	}
	if ret == lua.LNil {
		if msg == lua.LNil {
			return event.Response{}, ErrHandleFailed
		}
		return event.Response{}, fmt.Errorf("%w: %s", ErrHandleFailed, msg.String())
	}
	return event.Response{}, fmt.Errorf("%w: %s", ErrUnsupportedResult, ret.Type())
}

type Options struct {
	// Script is inline Lua source.
	Script string `yaml:"script"`
	// File is a path to a Lua script, used when Script is empty.
	File    string        `yaml:"file"`
	Timeout time.Duration `yaml:"timeout"`
}

// New creates a Lua [Module] from route options, logging print output with [slog.Default].
func New(opts modules.Options) (module.Module, error) {
	return NewWithLogger(nil)(opts)
}

// NewWithLogger returns a [modules.Constructor] like [New] that logs print output with log.
func NewWithLogger(log *slog.Logger) modules.Constructor {
	return func(opts modules.Options) (module.Module, error) {
		return newModule(opts, log)
	}
}

func newModule(opts modules.Options, log *slog.Logger) (module.Module, error) {
	var conf Options
	if err := opts.Decode(&conf); err != nil {
		return nil, err
	}
	var (
		mod *Module
		err error
	)
	switch {
	case len(conf.Script) > 0 && len(conf.File) > 0:
		return nil, fmt.Errorf("%w: only one of script or file may be set", modules.ErrInvalidOptions)
	case len(conf.Script) > 0:
		mod, err = Compile("inline", conf.Script, conf.Timeout)
	case len(conf.File) > 0:
		mod, err = CompileFile(conf.File, conf.Timeout)
	default:
		return nil, fmt.Errorf("%w: one of script or file is required", modules.ErrInvalidOptions)
	}
	if err != nil {
		return nil, err
	}
	return mod.WithLogger(log), nil
}
