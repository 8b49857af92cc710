package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/config"
)

const base = `
version = "1.2.0"

[database]
name = "assay"
user = "assay"

[storage]
connection_string = "UseDevelopmentStorage=true"

[extraction]
api_key = "key"
temperature = 0.1

[[extraction.reference_images]]
caption = "Barcode block with the GTIN grade letter"
key = "references/barcode.png"

[pipeline]
extraction_limit = 4
interval = "5m"

[rules]
nc_rules = "rules/nc.csv"
`

const overlay = `
[server]
port = 9090

[pipeline]
validation_limit = 8
`

func writeConfig(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	t.Chdir(dir)
}

func TestLoad(t *testing.T) {
	writeConfig(t, map[string]string{
		"config.toml":      base,
		"config.test.toml": overlay,
	})
	t.Setenv("ASSAY_ENV", "test")
	t.Setenv("ASSAY_DB_HOST", "db.internal")
	t.Setenv("ASSAY_PIPELINE_ATTEMPTS_LIMIT", "5")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env())
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "text", cfg.Server.LogFormat)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "reports", cfg.Storage.ContainerName)

	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.Equal(t, int64(50<<20), cfg.API.MaxUploadSizeBytes())
	assert.False(t, cfg.API.Auth.Enabled)
	assert.Equal(t, "Assay API", cfg.API.OpenAPI.Title)

	assert.Equal(t, config.BackendGemini, cfg.Extraction.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Extraction.TimeoutDuration())
	require.Len(t, cfg.Extraction.ReferenceImages, 1)
	assert.Equal(t, "references/barcode.png", cfg.Extraction.ReferenceImages[0].Key)

	assert.Equal(t, 4, cfg.Pipeline.ExtractionLimit)
	assert.Equal(t, 8, cfg.Pipeline.ValidationLimit)
	assert.Equal(t, 5, cfg.Pipeline.AttemptsLimit)
	assert.Equal(t, 5*time.Minute, cfg.Pipeline.IntervalDuration())

	assert.Empty(t, cfg.Rules.AQLGeneral)
	assert.Equal(t, "rules/nc.csv", cfg.Rules.NCRules)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]struct {
		body string
		env  map[string]string
		want string
	}{
		"missing storage": {
			body: strings.Replace(base, `connection_string = "UseDevelopmentStorage=true"`, "", 1),
			want: "storage",
		},
		"unknown backend": {
			env:  map[string]string{"ASSAY_EXTRACTION_BACKEND": "openai"},
			want: "extraction",
		},
		"vertex without project": {
			env:  map[string]string{"ASSAY_EXTRACTION_BACKEND": "vertex"},
			want: "extraction",
		},
		"bad interval": {
			env:  map[string]string{"ASSAY_PIPELINE_INTERVAL": "soon"},
			want: "pipeline",
		},
		"auth without issuer": {
			env:  map[string]string{"ASSAY_AUTH_ENABLED": "true"},
			want: "api: auth",
		},
		"bad log level": {
			env:  map[string]string{"ASSAY_SERVER_LOG_LEVEL": "verbose"},
			want: "server",
		},
		"bad upload size": {
			env:  map[string]string{"ASSAY_API_MAX_UPLOAD_SIZE": "lots"},
			want: "api",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			body := tt.body
			if body == "" {
				body = base
			}
			writeConfig(t, map[string]string{"config.toml": body})
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRulesSkipsServiceSections(t *testing.T) {
	writeConfig(t, map[string]string{"config.toml": "[rules]\naql_general = \"g.csv\"\n"})
	t.Setenv("ASSAY_RULES_NC_RULES", "nc.csv")

	rules, err := config.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, "g.csv", rules.AQLGeneral)
	assert.Equal(t, "nc.csv", rules.NCRules)

	_, err = config.Load()
	assert.Error(t, err)
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	cfg := &config.Config{Version: "1.0.0"}
	cfg.Pipeline.BatchSize = 50

	cfg.Merge(&config.Config{Pipeline: config.PipelineConfig{ExtractionLimit: 2}})

	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, 50, cfg.Pipeline.BatchSize)
	assert.Equal(t, 2, cfg.Pipeline.ExtractionLimit)
}
