// Package config resolves typed configuration from environment variables, an
// optional .env file and compiled-in defaults.
//
// Bindings are declared as an explicit table of (field, key, default) triples and
// processed by a plain loop; no struct tags or reflection are involved.
//
// # Basic Usage
//
//	var bindings = []config.Binding{
//	    {Field: "DatabaseURL", Key: "DATABASE_URL", Default: "postgres://localhost/app"},
//	    {Field: "Port", Key: "PORT", Default: "8080"},
//	    {Field: "APIKey", Key: "API_KEY", Secret: true},
//	}
//
//	values, err := config.Load(bindings)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port, err := values.Int("Port")
//
// # Precedence
//
// For every binding the first tier that defines the key wins:
//
//  1. the process environment (a key that is present but empty still counts)
//  2. the env file, ".env" in the working directory unless LoadOptions.EnvFile says otherwise
//  3. the binding default
//
// The env file is parsed with github.com/joho/godotenv into a map; it is never
// copied into the process environment. Values are literal: "$NAME" and
// "${NAME}" are kept as written, not expanded. Keys that match no binding are ignored,
// both in the environment and in the file.
//
// # Custom Prefixes
//
//	// Will look for MYAPP_DATABASE_URL, MYAPP_PORT, ...
//	values, err := config.Load(bindings, config.LoadOptions{Prefix: "MYAPP_"})
//
// # Type Coercion
//
// Values keeps raw strings. The accessors coerce on demand:
//   - String: raw value
//   - Int: strconv.Atoi
//   - Bool: strconv.ParseBool ("true", "false", "1", "0", ...)
//   - Duration: time.ParseDuration ("1h30m", "45s", ...)
//   - Strings: separator-split list
//
// # Error Handling
//
// Every failure is a *ConfigError:
//   - "read": the env file exists but cannot be read or parsed
//   - "bind": the binding table names a field twice
//   - "lookup": an accessor was asked for a field that has no binding
//   - "parse": a value cannot be coerced to the requested type
//
//	var cerr *config.ConfigError
//	if errors.As(err, &cerr) {
//	    // configuration is unusable, abort startup
//	}
//
// # Debug Mode
//
// Pass a *zap.Logger in LoadOptions.Logger, or export CHEF_CONFIG_DEBUG=true, to log
// every key with the tier it was taken from. Values of secret bindings are masked.
package config
