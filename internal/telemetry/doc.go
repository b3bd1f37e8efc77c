// Package telemetry holds the runner sinks: a printer for terminals and
// logs, and a socket.io client that streams samples to a dashboard.
package telemetry
