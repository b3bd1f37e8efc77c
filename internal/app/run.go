package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/netfile"
	"github.com/vk/rtnet/internal/runner"
	"github.com/vk/rtnet/internal/telemetry"
)

// RunNets loads every configured network description and runs them
// concurrently. Each path becomes one net, named after its base name.
func (a *App) RunNets(ctx context.Context) ([]runner.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.RunNets method started.")
	if len(a.config.NetPaths) == 0 {
		return nil, errors.New("no network files given")
	}

	jobs := make([]runner.Job, 0, len(a.config.NetPaths))
	names := make(map[string]string)
	for _, path := range a.config.NetPaths {
		name := netName(path)
		if prev, dup := names[name]; dup {
			return nil, fmt.Errorf("nets %s and %s are both named '%s'", prev, path, name)
		}
		names[name] = path

		f, err := netfile.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		prog, err := netfile.Build(ctx, a.registry, f)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", path, err)
		}
		job := prog.Job(name, a.config.Cycles, a.config.Realtime)
		job.Every = a.config.Every
		jobs = append(jobs, job)
	}

	sinks, closeSinks, err := a.sinks(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSinks()

	a.logger.Info("Starting nets...", "count", len(jobs))
	g := runner.New(a.metrics, sinks...).Group(ctx)
	for _, job := range jobs {
		g.Go(job)
	}
	results, err := g.Wait()
	for _, res := range results {
		a.logger.Info("Net result.", "net", res.Name, "outcome", res.Outcome, "cycles", res.Cycles)
	}
	if err != nil {
		return results, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Debug("App.RunNets method finished.")
	return results, nil
}

// sinks returns the printer and, when configured, a socket.io sink.
func (a *App) sinks(ctx context.Context) ([]runner.Sink, func(), error) {
	sinks := []runner.Sink{telemetry.NewPrinter(a.outW)}
	if a.config.SocketIOURL == "" {
		return sinks, func() {}, nil
	}
	sio, err := telemetry.DialSocketIO(ctx, telemetry.SocketIOOptions{
		URL:       a.config.SocketIOURL,
		Namespace: a.config.SocketIONamespace,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: %w", err)
	}
	return append(sinks, sio), func() { _ = sio.Close() }, nil
}

func netName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
