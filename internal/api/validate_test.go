package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/api"
	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/internal/fri/fritest"
	"github.com/JaimeStill/assay/internal/inspection"
	"github.com/JaimeStill/assay/internal/rules"
	"github.com/JaimeStill/assay/pkg/routes"
)

func setupMux(t *testing.T) *http.ServeMux {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := api.NewValidateHandler(inspection.NewValidator(table, nil), table, logger)

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func TestValidate(t *testing.T) {
	mux := setupMux(t)
	body := fritest.JSON(t, fritest.Failing())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/validate", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	v := out["part_3_verdict"].(map[string]any)
	assert.Equal(t, "false_pass", v["verdict_type"])
}

func TestValidateContractViolation(t *testing.T) {
	mux := setupMux(t)
	r := fritest.Conforming()
	r.Report.Laboratory = ""

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/validate", bytes.NewReader(fritest.JSON(t, r))))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out struct {
		Violations []struct {
			Field string `json:"field"`
		} `json:"violations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out.Violations, 1)
	assert.Equal(t, "report.laboratory", out.Violations[0].Field)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/validate", bytes.NewReader([]byte("not json"))))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRulesLookup(t *testing.T) {
	mux := setupMux(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"bracket", "?quantity=5000&level=II", http.StatusOK},
		{"default level", "?quantity=5000", http.StatusOK},
		{"no bracket", "?quantity=1&level=II", http.StatusNotFound},
		{"bad quantity", "?quantity=many", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", "/rules/aql"+tt.query, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/rules/aql?quantity=5000&level=II", nil))
	var row rules.Row
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&row))
	assert.Equal(t, 200, row.SampleSize)
}

func TestSpecHandler(t *testing.T) {
	table, err := rules.Default()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := api.NewValidateHandler(inspection.NewValidator(table, nil), table, logger)

	cfg := &config.Config{Version: "0.3.0"}
	cfg.API.BasePath = "/api"
	cfg.API.OpenAPI.Title = "Assay API"

	serve, err := api.SpecHandler(cfg, []routes.Group{h.Routes()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	serve(rec, httptest.NewRequest("GET", "/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))

	assert.Equal(t, "Assay API", doc.Info.Title)
	assert.Equal(t, "0.3.0", doc.Info.Version)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "/api", doc.Servers[0].URL)
	assert.Contains(t, doc.Paths["/validate"], "post")
	assert.Contains(t, doc.Paths["/rules/aql"], "get")
	assert.Contains(t, doc.Components.Schemas, "Report")
	assert.Contains(t, doc.Components.Schemas, "AQLRow")
}
