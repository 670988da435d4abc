package modules

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/module"
	"gopkg.in/yaml.v3"
	"io"
)

var (
	ErrInvalidOptions = errors.New("invalid module options")
)

// Options are the free-form settings given to a module in a route's configuration.
type Options map[string]any

// Decode populates the struct pointed to by v from the options, using the struct's yaml tags.
// Unknown option keys are rejected.
func (o Options) Decode(v any) error {
	if len(o) == 0 {
		return nil
	}
	data, err := yaml.Marshal(map[string]any(o))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// Constructor creates a [module.Module] from its route options.
type Constructor func(opts Options) (module.Module, error)
