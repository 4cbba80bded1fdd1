package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DefaultEnvFile is the env file read when LoadOptions.EnvFile is empty.
const DefaultEnvFile = ".env"

// LoadOptions defines options for loading configuration.
type LoadOptions struct {
	Prefix      string // Prefix prepended to every binding key
	EnvFile     string // Path of the env file (default: ".env")
	SkipEnvFile bool   // Do not read any env file

	// Lookup replaces os.LookupEnv, mostly for tests.
	Lookup func(key string) (string, bool)

	// Logger receives one debug entry per resolved binding.
	Logger *zap.Logger
}

// Binding ties a field name to its environment key and compiled-in default.
type Binding struct {
	Field   string
	Key     string
	Default string
	Secret  bool // mask the value in debug output
}

// Load resolves every binding against the process environment, the env file
// and the binding default, in that order of precedence.
//
// A missing env file is not an error. A present file that cannot be read or
// parsed fails with a *ConfigError. Keys that match no binding are ignored,
// and the process environment is never modified.
//
// Example:
//
//	values, err := config.Load([]config.Binding{
//	    {Field: "Port", Key: "PORT", Default: "8080"},
//	}, config.LoadOptions{Prefix: "MYAPP_"})
//	// Will look for MYAPP_PORT
func Load(bindings []Binding, opts ...LoadOptions) (Values, error) {
	var options LoadOptions
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.EnvFile == "" {
		options.EnvFile = DefaultEnvFile
	}
	if options.Lookup == nil {
		options.Lookup = os.LookupEnv
	}
	logger := options.Logger
	if logger == nil {
		logger = debugLogger()
	}

	fileValues, err := readEnvFile(options)
	if err != nil {
		return nil, err
	}

	values := make(Values, len(bindings))
	for _, b := range bindings {
		if _, dup := values[b.Field]; dup {
			return nil, &ConfigError{Op: "bind", Key: b.Key, Err: errDuplicateField}
		}

		key := options.Prefix + b.Key
		v := Value{Key: key, Raw: b.Default, Source: SourceDefault, Secret: b.Secret}
		if raw, ok := options.Lookup(key); ok {
			v.Raw, v.Source = raw, SourceEnv
		} else if raw, ok := fileValues[key]; ok {
			v.Raw, v.Source = raw, SourceFile
		}
		values[b.Field] = v

		logger.Debug("resolved config value",
			zap.String("key", key),
			zap.Stringer("source", v.Source),
			zap.String("value", v.display()),
		)
	}

	return values, nil
}

// readEnvFile returns the key/value pairs of the env file, or nil when the file
// does not exist. Values are taken literally: "$" is never expanded.
func readEnvFile(options LoadOptions) (map[string]string, error) {
	if options.SkipEnvFile {
		return nil, nil
	}

	data, err := os.ReadFile(options.EnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ConfigError{Op: "read", Path: options.EnvFile, Err: err}
	}

	m, err := parseLiteral(data)
	if err != nil {
		return nil, &ConfigError{Op: "read", Path: options.EnvFile, Err: err}
	}
	return m, nil
}

// parseLiteral parses env file content with godotenv while keeping every "$"
// as written. godotenv always substitutes $NAME and ${NAME}, so each "$" is
// swapped for a rune absent from data before parsing and restored afterwards.
func parseLiteral(data []byte) (map[string]string, error) {
	if !bytes.ContainsRune(data, '$') {
		return godotenv.UnmarshalBytes(data)
	}

	mask := unusedRune(data)
	m, err := godotenv.UnmarshalBytes(bytes.ReplaceAll(data, []byte("$"), mask))
	if err != nil {
		return nil, err
	}
	for k, v := range m {
		m[k] = strings.ReplaceAll(v, string(mask), "$")
	}
	return m, nil
}

// unusedRune returns the UTF-8 encoding of a private-use rune not present in data.
func unusedRune(data []byte) []byte {
	buf := make([]byte, utf8.UTFMax)
	for r := rune(0xE000); r <= 0xF8FF; r++ {
		n := utf8.EncodeRune(buf, r)
		if !bytes.Contains(data, buf[:n]) {
			return buf[:n]
		}
	}
	// Every private-use rune present: fall back to a supplementary plane rune.
	n := utf8.EncodeRune(buf, 0xF0000)
	return buf[:n]
}

// debugLogger enables development logging through CHEF_CONFIG_DEBUG=true.
func debugLogger() *zap.Logger {
	if os.Getenv("CHEF_CONFIG_DEBUG") != "true" {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
