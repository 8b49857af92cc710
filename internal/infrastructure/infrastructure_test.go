package infrastructure_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/infrastructure"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := infrastructure.NewLogger(&buf, "warn", "json")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "entry_id", "e-1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"entry_id":"e-1"`)

	_, err = infrastructure.NewLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = infrastructure.NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	nc := filepath.Join(dir, "nc.csv")
	require.NoError(t, os.WriteFile(nc, []byte(
		"Family of non compliance;Product category;Cause of non-compliance;Laboratory validation;SIPLEC decision;Comments\n"+
			"Packaging;All;carton damaged;Fail;Refused;\n"), 0o600))

	table, rules, err := infrastructure.LoadRules(&config.RulesConfig{NCRules: nc})
	require.NoError(t, err)
	assert.Positive(t, table.Len())
	assert.Equal(t, 1, rules.Len())

	_, _, err = infrastructure.LoadRules(&config.RulesConfig{AQLGeneral: filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}

func TestNewValidator(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v, err := infrastructure.NewValidator(&config.RulesConfig{}, logger)
	require.NoError(t, err)
	assert.NotNil(t, v)
}
