// Package formatting parses and prints byte sizes and recovers JSON
// documents from model output.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with base-1024 units.
func FormatBytes(n int64, precision int) string {
	if n <= 0 {
		return "0 B"
	}
	precision = max(precision, 0)

	i := min(int(math.Log(float64(n))/math.Log(1024)), len(units)-1)
	size := float64(n) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes reads sizes such as "50MB", "1.5 gb", "512KiB" or "2048".
// A bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	unit := strings.ToUpper(m[2])
	if unit == "" {
		return int64(value), nil
	}
	if len(unit) == 3 && unit[1] == 'I' {
		unit = unit[:1] + unit[2:]
	}

	idx := slices.Index(units, unit)
	if idx < 0 {
		return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
	}
	return int64(value * math.Pow(1024, float64(idx))), nil
}
