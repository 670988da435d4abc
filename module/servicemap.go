package module

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"slices"
)

var (
	ErrDuplicateKind = errors.New("event kind already registered")
	ErrNilModule     = errors.New("nil module")
)

// ServiceMap is the routing table that maps an [event.Kind] to the [Module] that handles it.
// A ServiceMap can't be changed once it's built, so a single instance may be shared between any number of goroutines.
//
// Use [Registry] to build a ServiceMap.
type ServiceMap struct {
	modules map[event.Kind]Module
}

// Get returns the [Module] registered for kind, if any.
func (m *ServiceMap) Get(kind event.Kind) (Module, bool) {
	if m == nil {
		return nil, false
	}
	mod, ok := m.modules[kind]
	return mod, ok
}

func (m *ServiceMap) Has(kind event.Kind) bool {
	_, ok := m.Get(kind)
	return ok
}

func (m *ServiceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.modules)
}

// Kinds returns every registered [event.Kind] in sorted order.
func (m *ServiceMap) Kinds() []event.Kind {
	if m.Len() == 0 {
		return nil
	}
	kinds := make([]event.Kind, 0, len(m.modules))
	for kind := range m.modules {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Registry collects module registrations and validates them when a [ServiceMap] is built.
// Registration problems are accumulated, so every problem is reported together by [Registry.Build].
//
// Note that a Registry is not concurrency safe.
type Registry struct {
	modules map[event.Kind]Module
	errs    []error
}

func NewRegistry() *Registry {
	return &Registry{modules: map[event.Kind]Module{}}
}

// Register associates a [Module] with an [event.Kind].
func (r *Registry) Register(kind event.Kind, mod Module) *Registry {
	switch {
	case len(kind) == 0:
		r.errs = append(r.errs, event.ErrEmptyKind)
	case mod == nil:
		r.errs = append(r.errs, fmt.Errorf("%w for event kind '%s'", ErrNilModule, kind))
	default:
		if _, ok := r.modules[kind]; ok {
			r.errs = append(r.errs, fmt.Errorf("%w: '%s'", ErrDuplicateKind, kind))
			return r
		}
		r.modules[kind] = mod
	}
	return r
}

// RegisterAll associates one [Module] with every given [event.Kind].
func (r *Registry) RegisterAll(mod Module, kinds ...event.Kind) *Registry {
	if len(kinds) == 0 {
		r.errs = append(r.errs, fmt.Errorf("%w: no event kinds given", event.ErrEmptyKind))
		return r
	}
	for _, kind := range kinds {
		r.Register(kind, mod)
	}
	return r
}

// Build validates the registrations and creates a [ServiceMap].
// The Registry may continue to be used afterward without affecting the returned [ServiceMap].
func (r *Registry) Build() (*ServiceMap, error) {
	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	modules := make(map[event.Kind]Module, len(r.modules))
	for kind, mod := range r.modules {
		modules[kind] = mod
	}
	return &ServiceMap{modules: modules}, nil
}
