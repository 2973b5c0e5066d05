// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/AliceYangAC/product-service-bb/internal/blob"
	"github.com/AliceYangAC/product-service-bb/internal/config"
	"github.com/AliceYangAC/product-service-bb/internal/service"
	"github.com/AliceYangAC/product-service-bb/internal/store"
	"github.com/AliceYangAC/product-service-bb/internal/transport/rest"
	"github.com/AliceYangAC/product-service-bb/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	Store   store.ProductStore
	Catalog service.CatalogService
	Images  service.ImageService
	Version string
	Logger  *slog.Logger
}

// SetupDependencies wires the services over the given database pool and blob store.
func SetupDependencies(dbPool *pgxpool.Pool, blobs blob.Store, version string, logger *slog.Logger) *Dependencies {
	productStore := store.NewPgStore(dbPool)
	return &Dependencies{
		Store:   productStore,
		Catalog: service.NewCatalog(productStore),
		Images:  service.NewImages(blobs, logger),
		Version: version,
		Logger:  logger,
	}
}

// SetupHttpHandler initializes the router and routes for the catalog service.
// Used by tests to exercise the full HTTP surface without a listener.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger, cfg.CORS.Origins())
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Catalog, deps.Images, deps.Version, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}
	return server.NewHTTPServer(httpCfg, mux)
}
