package api

import (
	"net/http"

	"github.com/solardesk/solardesk/internal/config"
	"github.com/solardesk/solardesk/pkg/openapi"
	"github.com/solardesk/solardesk/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	routes.Register(mux, domain.Investors.Handler().Routes())
	routes.Register(mux, domain.Projects.Handler().Routes())
	routes.Register(mux, domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes())
	routes.Register(mux, domain.Settings.Handler().Routes())
	routes.Register(mux, domain.Audit.Handler().Routes())
	routes.Register(mux, domain.Duplicates.Handler().Routes())

	storage := newStorageHandler(runtime.Storage, runtime.Logger, runtime.MaxListSize)
	routes.Register(mux, storage.routes())

	spec, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return nil
}
