package config

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/slogx"
	"gopkg.in/yaml.v3"
	"io"
	"log/slog"
	"os"
	"time"
)

const (
	DefaultAddr        = ":8080"
	DefaultCallTimeout = 5 * time.Second
	DefaultLogLevel    = "info"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config describes an eventsys process: where the gateway listens, how it logs, and which module handles each event kind.
type Config struct {
	Addr string `yaml:"addr"`
	// CallTimeout is how long a producer waits for a response before giving up.
	CallTimeout time.Duration `yaml:"call_timeout"`
	Log         LogConfig     `yaml:"log"`
	Routes      []Route       `yaml:"routes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	// File is an optional path that receives a JSON copy of every record.
	File string `yaml:"file"`
}

// Route binds an event kind to a named module.
// Options are passed to the module's constructor as-is.
type Route struct {
	Event   string         `yaml:"event"`
	Module  string         `yaml:"module"`
	Options map[string]any `yaml:"options,omitempty"`
}

// Default returns a Config with default values and no routes.
func Default() Config {
	return Config{
		Addr:        DefaultAddr,
		CallTimeout: DefaultCallTimeout,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Parse decodes YAML from r over the values from [Default].
// Unknown fields are rejected so typos don't silently fall back to defaults.
func Parse(r io.Reader) (Config, error) {
	conf := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil {
		if errors.Is(err, io.EOF) {
			return conf, nil
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return conf, nil
}

// Load reads the config file at path, applies overrides from env, and validates the result.
// An empty path skips the file, leaving defaults and overrides.
func Load(path string, env Environment) (Config, error) {
	conf := Default()
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		conf, err = Parse(bytes.NewReader(data))
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
	}
	conf.ApplyEnv(env)
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// ApplyEnv overrides settings with any non-empty EVENTSYS_* variables in env.
func (c *Config) ApplyEnv(env Environment) {
	c.Addr = env.Val(EnvAddr, c.Addr)
	c.CallTimeout = env.Duration(EnvCallTimeout, c.CallTimeout)
	c.Log.Level = env.Val(EnvLogLevel, c.Log.Level)
	c.Log.JSON = env.Bool(EnvLogJSON, c.Log.JSON)
	c.Log.File = env.Val(EnvLogFile, c.Log.File)
}

// Validate reports every problem with the Config at once.
func (c Config) Validate() error {
	var errs []error
	if len(c.Addr) == 0 {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.CallTimeout <= 0 {
		errs = append(errs, fmt.Errorf("call_timeout must be positive, got %s", c.CallTimeout))
	}
	if _, err := slogx.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	seen := map[event.Kind]int{}
	for i, route := range c.Routes {
		kind, err := event.ParseKind(route.Event)
		if err != nil {
			errs = append(errs, fmt.Errorf("routes[%d]: %w", i, err))
		}
		if len(route.Module) == 0 {
			errs = append(errs, fmt.Errorf("routes[%d]: module is required", i))
		}
		if len(kind) == 0 {
			continue
		}
		if prev, ok := seen[kind]; ok {
			errs = append(errs, fmt.Errorf("routes[%d]: event '%s' is already routed by routes[%d]", i, kind, prev))
			continue
		}
		seen[kind] = i
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level, or [slog.LevelInfo] if it's invalid.
func (c Config) LogLevel() slog.Level {
	level, _ := slogx.ParseLevel(c.Log.Level)
	return level
}
