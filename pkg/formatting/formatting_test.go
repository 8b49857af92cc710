package formatting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2048", 2048},
		{"50MB", 50 << 20},
		{"1.5 gb", 3 << 29},
		{"512KiB", 512 << 10},
		{" 1 B ", 1},
	}
	for _, tt := range tests {
		got, err := formatting.ParseBytes(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "MB", "-5MB", "10 XB"} {
		_, err := formatting.ParseBytes(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatting.FormatBytes(0, 1))
	assert.Equal(t, "512 B", formatting.FormatBytes(512, 0))
	assert.Equal(t, "50.0 MB", formatting.FormatBytes(50<<20, 1))
	assert.Equal(t, "2 GB", formatting.FormatBytes(2<<30, -1))
}

type payload struct {
	Overall string `json:"overall_result"`
}

func TestParse(t *testing.T) {
	tests := map[string]string{
		"raw":    `{"overall_result":"pass"}`,
		"fenced": "Here you go:\n```json\n{\"overall_result\":\"pass\"}\n```",
		"prose":  `The extraction is {"overall_result":"pass"} as requested.`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := formatting.Parse[payload](in)
			require.NoError(t, err)
			assert.Equal(t, "pass", got.Overall)
		})
	}

	_, err := formatting.Parse[payload]("no json here")
	assert.ErrorIs(t, err, formatting.ErrParseFailed)
}
