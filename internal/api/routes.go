package api

import (
	"github.com/JaimeStill/assay/internal/config"
	"github.com/JaimeStill/assay/pkg/routes"
)

func routeGroups(domain *Domain, cfg *config.Config, runtime *Runtime) []routes.Group {
	validate := NewValidateHandler(runtime.Validator, runtime.Rules, runtime.Logger)

	return []routes.Group{
		domain.Entries.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Results.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Pipeline.Handler().Routes(),
		validate.Routes(),
	}
}
