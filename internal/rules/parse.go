package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unbounded is the upper lot size used for open-ended brackets
// such as "500,001 et plus".
const Unbounded = 999_999_999

var (
	acceptPattern = regexp.MustCompile(`(?i)Ac\s*=\s*(\d+)`)
	rangePattern  = regexp.MustCompile(`^(\d+)\s*[-–—]\s*(\d+)$`)
	openPattern   = regexp.MustCompile(`(?i)^(\d+)\s*(?:and up|et plus|\+)$`)
	levelPattern  = regexp.MustCompile(`^([A-Za-z]+)(\d+)\s*[-–—]\s*([A-Za-z]*)(\d+)$`)
)

// ParseLotSize parses a lot size bracket of the form "lo - hi" (hyphen,
// en dash or em dash) or an open bracket "n and up", "n et plus" or "n+".
// Thousands separators are ignored.
func ParseLotSize(text string) (lo, hi int, err error) {
	s := stripThousands(text)

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		if lo, err = bound(text, m[1]); err != nil {
			return 0, 0, err
		}
		if hi, err = bound(text, m[2]); err != nil {
			return 0, 0, err
		}
		if lo > hi {
			return 0, 0, fmt.Errorf("invalid lot size %q: lower bound exceeds upper bound", text)
		}
		return lo, hi, nil
	}

	if m := openPattern.FindStringSubmatch(s); m != nil {
		if lo, err = bound(text, m[1]); err != nil {
			return 0, 0, err
		}
		return lo, Unbounded, nil
	}

	return 0, 0, fmt.Errorf("invalid lot size %q", text)
}

func bound(text, digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid lot size %q: %w", text, err)
	}
	return n, nil
}

// ParseAccept extracts the accept number from an "Ac=n/Re=m" cell.
// Blank cells and cells without an accept number yield nil, meaning no
// threshold is defined; this is distinct from an accept number of zero.
func ParseAccept(cell string) *int {
	m := acceptPattern.FindStringSubmatch(cell)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ExpandLevels turns a compound level label such as "S1-S4" into one label
// per level of the inclusive range. Plain labels are returned unchanged.
func ExpandLevels(label string) ([]string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("empty level label")
	}

	m := levelPattern.FindStringSubmatch(label)
	if m == nil {
		return []string{strings.ToUpper(label)}, nil
	}

	prefix := strings.ToUpper(m[1])
	if m[3] != "" && !strings.EqualFold(m[3], prefix) {
		return nil, fmt.Errorf("invalid level range %q: mixed prefixes", label)
	}

	lo, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("invalid level range %q: %w", label, err)
	}
	hi, err := strconv.Atoi(m[4])
	if err != nil {
		return nil, fmt.Errorf("invalid level range %q: %w", label, err)
	}
	if lo > hi {
		return nil, fmt.Errorf("invalid level range %q", label)
	}

	levels := make([]string, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		levels = append(levels, fmt.Sprintf("%s%d", prefix, n))
	}
	return levels, nil
}

func stripThousands(text string) string {
	s := strings.NewReplacer(",", "", "\u00a0", " ", "\u202f", " ").Replace(text)
	s = strings.TrimSpace(s)

	// spaces inside a number ("10 000") are separators, spaces around the
	// dash are not
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == ' ' && i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
