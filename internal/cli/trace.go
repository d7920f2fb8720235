package cli

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/semconv/v1.26.0"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/foliolib/folio/pkg/version"
)

const traceEndpointEnv = "FOLIO_TRACE_ENDPOINT"

// setupTracing installs an OTLP trace exporter when FOLIO_TRACE_ENDPOINT is
// set. Without it, catalog load spans stay no-ops.
func setupTracing(ctx context.Context) error {
	endpoint := os.Getenv(traceEndpointEnv)
	if endpoint == "" {
		return nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cmdName),
		semconv.ServiceVersion(version.GetVersion()),
	))
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return nil
}
