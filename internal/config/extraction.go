package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/assay/pkg/env"
)

// Model backends.
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// ReferenceImage is an annotated example shown to the model before the
// report. Key addresses the image in blob storage.
type ReferenceImage struct {
	Caption string `toml:"caption"`
	Key     string `toml:"key"`
}

// ExtractionConfig selects the model used to read report PDFs.
type ExtractionConfig struct {
	Backend         string           `toml:"backend"`
	APIKey          string           `toml:"api_key"`
	Project         string           `toml:"project"`
	Location        string           `toml:"location"`
	Model           string           `toml:"model"`
	Temperature     float64          `toml:"temperature"`
	Timeout         string           `toml:"timeout"`
	ReferenceImages []ReferenceImage `toml:"reference_images"`
}

func (c *ExtractionConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *ExtractionConfig) Finalize() error {
	defaultString(&c.Backend, BackendGemini)
	defaultString(&c.Model, "gemini-2.5-flash")
	defaultString(&c.Timeout, "5m")

	env.String(&c.Backend, "ASSAY_EXTRACTION_BACKEND")
	env.String(&c.APIKey, "ASSAY_EXTRACTION_API_KEY")
	env.String(&c.Project, "ASSAY_EXTRACTION_PROJECT")
	env.String(&c.Location, "ASSAY_EXTRACTION_LOCATION")
	env.String(&c.Model, "ASSAY_EXTRACTION_MODEL")
	env.Float(&c.Temperature, "ASSAY_EXTRACTION_TEMPERATURE")
	env.String(&c.Timeout, "ASSAY_EXTRACTION_TIMEOUT")

	return c.validate()
}

func (c *ExtractionConfig) validate() error {
	switch c.Backend {
	case BackendGemini:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for backend %s", c.Backend)
		}
	case BackendVertex:
		if c.Project == "" || c.Location == "" {
			return fmt.Errorf("project and location required for backend %s", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2]")
	}
	for i, img := range c.ReferenceImages {
		if img.Key == "" {
			return fmt.Errorf("reference_images[%d]: key required", i)
		}
	}
	return durations(map[string]string{"timeout": c.Timeout})
}

// Merge replaces reference images wholesale when the overlay names any.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	mergeString(&c.Backend, overlay.Backend)
	mergeString(&c.APIKey, overlay.APIKey)
	mergeString(&c.Project, overlay.Project)
	mergeString(&c.Location, overlay.Location)
	mergeString(&c.Model, overlay.Model)
	mergeString(&c.Timeout, overlay.Timeout)
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.ReferenceImages != nil {
		c.ReferenceImages = overlay.ReferenceImages
	}
}
