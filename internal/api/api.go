// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/solardesk/solardesk/internal/config"
	"github.com/solardesk/solardesk/internal/infrastructure"
	"github.com/solardesk/solardesk/pkg/middleware"
	"github.com/solardesk/solardesk/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))
	m.Use(runtime.Auth.Middleware)

	return m, nil
}
