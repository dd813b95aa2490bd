package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const (
	meterName            = "github.com/metinatakli/cinema-ticketing/internal/app"
	metricExportInterval = 15 * time.Second
)

// bookingAttributeKeys are the only attributes kept on booking.* instruments.
var bookingAttributeKeys = []attribute.Key{"kind", "outcome", "status", "reason"}

// InitTelemetry installs the OTLP trace and metric providers and returns a shutdown
// function. Without a collector URL the global no-op providers stay in place.
func (app *Application) InitTelemetry() (func(context.Context), error) {
	if app.config.OtelCollectorUrl == "" {
		app.logger.Info("OpenTelemetry collector URL not set, skipping initialization")

		return func(context.Context) {}, nil
	}

	ctx := context.Background()

	res, err := app.telemetryResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	tracerProvider, err := newTracerProvider(ctx, res, app.config.OtelCollectorUrl)
	if err != nil {
		return nil, err
	}

	meterProvider, err := newMeterProvider(ctx, res, app.config.OtelCollectorUrl)
	if err != nil {
		return nil, errors.Join(err, tracerProvider.Shutdown(ctx))
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetMeterProvider(meterProvider)

	if err := app.registerSweeperMetrics(meterProvider.Meter(meterName)); err != nil {
		app.logger.Error("failed to register sweeper metrics", "error", err)
	}

	shutdown := func(ctx context.Context) {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		err := errors.Join(
			tracerProvider.Shutdown(shutdownCtx),
			meterProvider.Shutdown(shutdownCtx),
		)
		if err != nil {
			app.logger.Error("failed to shutdown telemetry providers", "error", err)
		}
	}

	return shutdown, nil
}

// telemetryResource describes this process. The store backend is attached so
// booking metrics from memory and postgres deployments can be told apart.
func (app *Application) telemetryResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
			semconv.DeploymentEnvironment(app.config.Env),
			attribute.String("cinema.store", app.config.Store),
		),
	)
}

func newTracerProvider(ctx context.Context, res *resource.Resource, endpoint string) (*trace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
		trace.WithResource(res),
		trace.WithBatcher(exporter),
	), nil
}

func newMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel metric exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricExportInterval))),
		sdkmetric.WithView(metricViews()...),
	), nil
}

func metricViews() []sdkmetric.View {
	return []sdkmetric.View{
		// Ticket ids and customer ids must never become metric dimensions.
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: "booking.*"},
			sdkmetric.Stream{AttributeFilter: attribute.NewAllowKeysFilter(bookingAttributeKeys...)},
		),
		// Redis pool waits are reported in milliseconds.
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: "db.client.connections.*", Kind: sdkmetric.InstrumentKindHistogram},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
			}},
		),
	}
}

func (app *Application) registerSweeperMetrics(meter metric.Meter) error {
	_, err := meter.Int64ObservableCounter("booking.holds_expired",
		metric.WithDescription("Holds released by the expiry sweeper since start"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(app.sweeper.TotalExpired())
			return nil
		}),
	)

	return err
}
