// Command errkit-demo is a small user/order API showing how every failure,
// from a business rule to a panic, reaches clients as {"status","message"}.
package main

import (
	"context"
	"embed"

	"github.com/kbukum/errkit/bootstrap"
	"github.com/kbukum/errkit/catalog"
	"github.com/kbukum/errkit/config"
	"github.com/kbukum/errkit/logger"
	"github.com/kbukum/errkit/observability"
	"github.com/kbukum/errkit/resolver"
	"github.com/kbukum/errkit/server"
)

const serviceName = "errkit-demo"

//go:embed error/exception.yml
var resources embed.FS

func main() {
	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvPrefix("ERRKIT")); err != nil {
		logger.Fatal("Failed to load config", logger.ErrorFields("load_config", err))
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		logger.Fatal("Failed to create app", logger.ErrorFields("new_app", err))
	}

	if _, err := setup(app); err != nil {
		app.Logger.Fatal("Failed to set up service", logger.ErrorFields("setup", err))
	}
	if err := app.Run(context.Background()); err != nil {
		app.Logger.Fatal("Service stopped with error", logger.ErrorFields("run", err))
	}
}

// setup loads the catalog, builds the resolver and server, registers routes
// and components.
func setup(app *bootstrap.App[*AppConfig]) (*server.Server, error) {
	cfg := app.Cfg

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	app.Logger.Info("Error catalog loaded", map[string]interface{}{
		"source":  cat.Source(),
		"entries": cat.Len(),
	})

	telemetry := observability.NewComponent(cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
	// Instruments on the global meter follow the SDK provider once telemetry starts.
	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, err
	}

	res := resolver.New(cat,
		resolver.WithLogger(app.Logger),
		resolver.WithMetrics(metrics),
	)

	srv := server.New(cfg.Server, app.Logger, res)
	srv.ApplyMiddleware(metrics)
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll)

	if err := registerRoutes(srv, cfg, app.Logger); err != nil {
		return nil, err
	}

	if err := app.RegisterComponent(telemetry); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, err
	}
	return srv, nil
}

func loadCatalog(cfg CatalogConfig) (*catalog.Catalog, error) {
	if cfg.File != "" {
		return catalog.LoadFile(cfg.File)
	}
	return catalog.Build(resources)
}
