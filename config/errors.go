package config

import (
	"errors"
	"fmt"
)

var (
	errDuplicateField = errors.New("duplicate field binding")
	errUnknownField   = errors.New("unknown field")

	errSecretUnparsable = errors.New("secret value cannot be parsed")
)

// ConfigError reports a configuration that cannot be loaded or coerced.
// Callers are expected to treat it as fatal at startup.
type ConfigError struct {
	Op   string // "read", "bind", "lookup" or "parse"
	Key  string
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("config: %s %s: %v", e.Op, e.Path, e.Err)
	case e.Key != "":
		return fmt.Sprintf("config: %s %s: %v", e.Op, e.Key, e.Err)
	default:
		return fmt.Sprintf("config: %s: %v", e.Op, e.Err)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
