package config

import (
	"os"
	"strings"
	"time"
)

const (
	EnvAddr        = "EVENTSYS_ADDR"         // EnvAddr overrides [Config.Addr].
	EnvCallTimeout = "EVENTSYS_CALL_TIMEOUT" // EnvCallTimeout overrides [Config.CallTimeout].
	EnvLogLevel    = "EVENTSYS_LOG_LEVEL"    // EnvLogLevel overrides [LogConfig.Level].
	EnvLogJSON     = "EVENTSYS_LOG_JSON"     // EnvLogJSON overrides [LogConfig.JSON].
	EnvLogFile     = "EVENTSYS_LOG_FILE"     // EnvLogFile overrides [LogConfig.File].
)

var (
	DefaultTrue  = []string{"1", "yes", "true", "on"}  // DefaultTrue are the values considered "true" for boolean variables.
	DefaultFalse = []string{"0", "no", "false", "off"} // DefaultFalse are the values considered "false" for boolean variables.
)

// Environment is a set of environment variables with case-insensitive keys.
type Environment map[string]string

// OSEnvironment captures the current process environment.
func OSEnvironment() Environment {
	return EnvironmentOf(os.Environ())
}

// EnvironmentOf creates an [Environment] from KEY=value pairs, as returned by [os.Environ].
func EnvironmentOf(environ []string) Environment {
	env := Environment{}
	for _, pair := range environ {
		key, val, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		env[strings.ToLower(key)] = val
	}
	return env
}

// Val gets a variable's value with surrounding whitespace trimmed.
// If the variable isn't set, or is empty, then defaultVal is returned.
func (e Environment) Val(key string, defaultVal string) string {
	val, ok := e[strings.ToLower(key)]
	if !ok {
		return defaultVal
	}
	trimmed := strings.TrimSpace(val)
	if len(trimmed) == 0 {
		return defaultVal
	}
	return trimmed
}

// Bool interprets a variable using [DefaultTrue] and [DefaultFalse], compared case-insensitive.
// The defaultVal will be returned if the variable isn't set, is empty, or isn't a recognized boolean value.
func (e Environment) Bool(key string, defaultVal bool) bool {
	sval := strings.ToLower(e.Val(key, ""))
	if len(sval) == 0 {
		return defaultVal
	}
	for _, t := range DefaultTrue {
		if sval == t {
			return true
		}
	}
	for _, f := range DefaultFalse {
		if sval == f {
			return false
		}
	}
	return defaultVal
}

// Duration interprets a variable as a [time.Duration], returning defaultVal if it isn't set or can't be parsed.
func (e Environment) Duration(key string, defaultVal time.Duration) time.Duration {
	sval := e.Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	dval, err := time.ParseDuration(sval)
	if err != nil {
		return defaultVal
	}
	return dval
}
