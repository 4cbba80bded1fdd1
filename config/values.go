package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source tells which tier supplied a value.
type Source int

const (
	SourceDefault Source = iota
	SourceFile
	SourceEnv
)

func (s Source) String() string {
	switch s {
	case SourceEnv:
		return "env"
	case SourceFile:
		return "file"
	default:
		return "default"
	}
}

// Value is a resolved binding.
type Value struct {
	Key    string
	Raw    string
	Source Source
	Secret bool
}

func (v Value) display() string {
	if v.Secret && v.Raw != "" {
		return "******"
	}
	return v.Raw
}

// Values maps field names to their resolved values.
type Values map[string]Value

func (vs Values) get(field string) (Value, error) {
	v, ok := vs[field]
	if !ok {
		return Value{}, &ConfigError{Op: "lookup", Key: field, Err: errUnknownField}
	}
	return v, nil
}

// Source reports where a field's value came from. Unknown fields report SourceDefault.
func (vs Values) Source(field string) Source {
	return vs[field].Source
}

// String returns the raw value of a field.
func (vs Values) String(field string) (string, error) {
	v, err := vs.get(field)
	if err != nil {
		return "", err
	}
	return v.Raw, nil
}

// Int parses a field as a base-10 integer.
func (vs Values) Int(field string) (int, error) {
	v, err := vs.get(field)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(v.Raw))
	if err != nil {
		return 0, v.parseError(err)
	}
	return i, nil
}

// Bool parses a field with strconv.ParseBool.
func (vs Values) Bool(field string) (bool, error) {
	v, err := vs.get(field)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.Raw))
	if err != nil {
		return false, v.parseError(err)
	}
	return b, nil
}

// Duration parses a field with time.ParseDuration ("1h30m", "45s").
func (vs Values) Duration(field string) (time.Duration, error) {
	v, err := vs.get(field)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(strings.TrimSpace(v.Raw))
	if err != nil {
		return 0, v.parseError(err)
	}
	return d, nil
}

// Strings splits a field on sep, trimming blanks. An empty value yields nil.
func (vs Values) Strings(field, sep string) ([]string, error) {
	v, err := vs.get(field)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(v.Raw) == "" {
		return nil, nil
	}

	parts := strings.Split(v.Raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (v Value) parseError(err error) error {
	if v.Secret {
		// strconv and time quote the raw input in their messages
		err = errSecretUnparsable
	}
	return &ConfigError{
		Op:  "parse",
		Key: v.Key,
		Err: fmt.Errorf("invalid value %q from %s: %w", v.display(), v.Source, err),
	}
}
