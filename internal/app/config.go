package app

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCycleTime is the cycle time of nets built from actions.
const DefaultCycleTime = 0.01

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	NetPaths   []string // hcl files or directories, one net each
	DevicePath string   // yaml device file

	CycleTime float64
	Cycles    int64
	Realtime  bool
	Every     int

	SocketIOURL       string
	SocketIONamespace string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	MetricsPort     int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn' or 'error'", cfg.LogLevel)
	}

	for name, port := range map[string]int{"healthcheck": cfg.HealthcheckPort, "metrics": cfg.MetricsPort} {
		if port < 0 || port > 65535 {
			return nil, fmt.Errorf("invalid %s port %d", name, port)
		}
	}
	if cfg.HealthcheckPort != 0 && cfg.HealthcheckPort == cfg.MetricsPort {
		return nil, errors.New("healthcheck and metrics ports must differ")
	}

	if cfg.CycleTime == 0 {
		cfg.CycleTime = DefaultCycleTime
	}
	if !(cfg.CycleTime > 0) {
		return nil, fmt.Errorf("cycle time must be positive, got %v", cfg.CycleTime)
	}
	if cfg.Cycles < 0 {
		return nil, fmt.Errorf("cycle limit must not be negative, got %d", cfg.Cycles)
	}
	if cfg.Every < 0 {
		return nil, fmt.Errorf("sample interval must not be negative, got %d", cfg.Every)
	}
	return &cfg, nil
}
