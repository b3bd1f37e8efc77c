package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/metrics"
)

// healthHandler answers health checks with 200 OK.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) healthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	return mux
}

func (a *App) metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.gatherer))
	return mux
}

// healthCheckServer initializes and runs the health check HTTP server.
func (a *App) healthCheckServer() error {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Configuring health check server.")
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return nil
	}
	return a.serve("health check", a.config.HealthcheckPort, "/health", a.healthMux())
}

// metricsServer exposes the Prometheus metrics of running nets.
func (a *App) metricsServer() error {
	logger := ctxlog.FromContext(a.ctx)
	if a.config.MetricsPort <= 0 {
		logger.Debug("Metrics server not started: disabled")
		return nil
	}
	return a.serve("metrics", a.config.MetricsPort, "/metrics", a.metricsMux())
}

// serve listens on port before returning so that a taken port is reported
// to the caller.
func (a *App) serve(name string, port int, path string, h http.Handler) error {
	logger := ctxlog.FromContext(a.ctx)
	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%s server: %w", name, err)
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
	a.servers = append(a.servers, srv)

	go func() {
		logger.Info("Server starting", "server", name, "address", fmt.Sprintf("http://localhost%s%s", addr, path))
		// Serve returns http.ErrServerClosed on graceful shutdown.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed unexpectedly", "server", name, "error", err)
		}
	}()
	return nil
}

func (a *App) closeServers() error {
	logger := ctxlog.FromContext(a.ctx)
	if len(a.servers) == 0 {
		logger.Debug("No servers were running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	var errs []error
	for _, srv := range a.servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}
	a.servers = nil
	logger.Debug("Servers shut down.")
	return errors.Join(errs...)
}
