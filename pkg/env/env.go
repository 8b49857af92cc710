// Package env applies environment variable overrides to configuration
// fields. Each helper leaves the destination untouched when the variable
// name is empty, the variable is unset, or its value does not parse.
package env

import (
	"os"
	"strconv"
	"strings"
)

func lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v := os.Getenv(name)
	return v, v != ""
}

// String overrides dst with the value of the named variable.
func String(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// Int overrides dst with the integer value of the named variable.
func Int(dst *int, name string) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Int64 overrides dst with the 64-bit integer value of the named variable.
func Int64(dst *int64, name string) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

// Float overrides dst with the floating point value of the named variable.
func Float(dst *float64, name string) {
	if v, ok := lookup(name); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Bool overrides dst with the boolean value of the named variable.
func Bool(dst *bool, name string) {
	if v, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// List overrides dst with the comma-separated values of the named
// variable. Blank entries are dropped.
func List(dst *[]string, name string) {
	v, ok := lookup(name)
	if !ok {
		return
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*dst = out
}
