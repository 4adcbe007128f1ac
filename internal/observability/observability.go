// Package observability builds the logger, tracer and metric sets shared by
// every module.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config describes how observability is initialised.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string // json|text
	Output      io.Writer
}

// Provider holds the process-wide logger and tracer provider.
type Provider struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
}

// Registry holds the per-module instruments.
type Registry struct {
	Tracer             trace.Tracer
	Prometheus         *prometheus.Registry
	LeaderboardMetrics LeaderboardMetrics
	DisplayMetrics     DisplayMetrics
}

type Observability struct {
	Provider Provider
	Registry Registry
}

// Init wires logging, tracing and metrics for the service.
func Init(_ context.Context, cfg Config) (Observability, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return Observability{}, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.LogFormat) {
	case "", "json":
		handler = slog.NewJSONHandler(out, opts)
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		return Observability{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("version", cfg.Version),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tp := otel.GetTracerProvider()

	return Observability{
		Provider: Provider{
			Logger:         logger,
			TracerProvider: tp,
		},
		Registry: Registry{
			Tracer:             tp.Tracer(cfg.ServiceName),
			Prometheus:         registry,
			LeaderboardMetrics: NewPrometheusLeaderboardMetrics(registry),
			DisplayMetrics:     NewPrometheusDisplayMetrics(registry),
		},
	}, nil
}

// ParseLevel maps a config log level onto slog.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", level)
	}
}
