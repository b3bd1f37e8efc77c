package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/metrics"
	"github.com/vk/rtnet/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	ctx      context.Context
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	gatherer prometheus.Gatherer
	metrics  *metrics.Metrics
	servers  []*http.Server
}

// NewApp is the constructor for the main application. Samples are written
// to outW and logs to logW. It returns a fully initialized App with its own
// isolated logger, registry and metrics.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterModules(modules...)
	logger.Debug("All primitive modules registered.", "modules", len(modules), "kinds", len(reg.Kinds()))

	if err := reg.Validate(ctx); err != nil {
		return nil, fmt.Errorf("registry validation failed: %w", err)
	}
	logger.Debug("Registry validation passed.")

	prom := prometheus.NewRegistry()
	m, err := metrics.New(prom)
	if err != nil {
		return nil, err
	}

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		gatherer: prom,
		metrics:  m,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Start brings up the HTTP endpoints enabled in the configuration.
func (a *App) Start() error {
	if err := a.healthCheckServer(); err != nil {
		return err
	}
	return a.metricsServer()
}

// Close shuts the HTTP endpoints down.
func (a *App) Close() error {
	return a.closeServers()
}
