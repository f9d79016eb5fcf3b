// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace/noop"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	exportTimeout = 10 * time.Second
	// Must exceed [exportTimeout] so pending batches are flushed on Close.
	shutdownTimeout = 15 * time.Second

	DefaultEndpoint = "http://localhost:9411/api/v2/spans"
)

var (
	_ trace.Tracer = (*zipkinTracer)(nil)
	_ trace.Tracer = disabled{}
)

// Config selects where contract and node spans are exported.
type Config struct {
	Enabled bool `json:"enabled"`
	// Fraction of traces sampled, clamped to [0, 1].
	TraceSampleRate float64 `json:"traceSampleRate"`

	AppName  string `json:"appName"`
	Agent    string `json:"agent"`
	Version  string `json:"version"`
	Endpoint string `json:"endpoint"`
}

type zipkinTracer struct {
	oteltrace.Tracer

	provider *sdktrace.TracerProvider
}

func (z *zipkinTracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return z.provider.Shutdown(ctx)
}

// disabled records nothing.
type disabled struct {
	oteltrace.Tracer
}

func (disabled) Close() error { return nil }

// New returns a tracer batching spans to a zipkin collector, or [Noop] when
// tracing is disabled.
func New(config *Config) (trace.Tracer, error) {
	if !config.Enabled {
		return Noop(), nil
	}

	endpoint := config.Endpoint
	if len(endpoint) == 0 {
		endpoint = DefaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.Agent),
			attribute.String("version", config.Version),
		)),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.TraceSampleRate)),
	)
	return &zipkinTracer{
		Tracer:   provider.Tracer(config.AppName),
		provider: provider,
	}, nil
}

func Noop() trace.Tracer {
	return disabled{Tracer: noop.NewTracerProvider().Tracer("")}
}
