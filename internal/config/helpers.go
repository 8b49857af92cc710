package config

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func defaultString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// durations validates named duration strings in name order.
func durations(fields map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if _, err := time.ParseDuration(fields[name]); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}
