package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when no JSON value can be recovered from
// model output.
var ErrParseFailed = errors.New("failed to parse response")

var fence = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// Parse decodes model output into T. It tries the raw text, then the
// first fenced code block, then the outermost {...} span.
func Parse[T any](content string) (T, error) {
	var out T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		if err := json.Unmarshal([]byte(candidate), &out); err == nil {
			return out, nil
		}
		var zero T
		out = zero
	}

	return out, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content, 200))
}

func candidates(content string) []string {
	out := []string{content}

	if m := fence.FindStringSubmatch(content); len(m) == 2 {
		out = append(out, strings.TrimSpace(m[1]))
	}

	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start >= 0 && end > start {
		out = append(out, content[start:end+1])
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
