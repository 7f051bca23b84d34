package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hushhush/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages the OpenTelemetry instruments for the API
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	recording     bool
	mu            sync.RWMutex

	pledgesCounter            metric.Int64Counter
	pledgedAmountCounter      metric.Float64Counter
	vaultsFundedCounter       metric.Int64Counter
	httpRequestsCounter       metric.Int64Counter
	httpRequestDurationHist   metric.Float64Histogram
	rateLimitHitsCounter      metric.Int64Counter
	natsPublishedCounter      metric.Int64Counter
	databaseQueriesCounter    metric.Int64Counter
	databaseQueryDurationHist metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{config: cfg}
}

// Initialize builds the meter provider for the configured exporter
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)

	if err := mp.createInstruments(mp.meterProvider.Meter("hushhush")); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.recording = true
	log.Info("Metrics provider initialized")
	return nil
}

func (mp *MetricsProvider) createInstruments(meter metric.Meter) error {
	var err error
	mp.meter = meter

	if mp.pledgesCounter, err = meter.Int64Counter(PledgesTotal,
		metric.WithDescription("Total number of accepted pledges"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create pledges counter: %w", err)
	}

	if mp.pledgedAmountCounter, err = meter.Float64Counter(PledgedAmountTotal,
		metric.WithDescription("Total amount pledged"),
	); err != nil {
		return fmt.Errorf("failed to create pledged amount counter: %w", err)
	}

	if mp.vaultsFundedCounter, err = meter.Int64Counter(VaultsFundedTotal,
		metric.WithDescription("Total number of vaults that reached their goal"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create vaults funded counter: %w", err)
	}

	if mp.httpRequestsCounter, err = meter.Int64Counter(HTTPRequestsTotal,
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create HTTP requests counter: %w", err)
	}

	if mp.httpRequestDurationHist, err = meter.Float64Histogram(HTTPRequestDuration,
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	); err != nil {
		return fmt.Errorf("failed to create HTTP duration histogram: %w", err)
	}

	if mp.rateLimitHitsCounter, err = meter.Int64Counter(RateLimitHitsTotal,
		metric.WithDescription("Total number of rate limited requests"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create rate limit counter: %w", err)
	}

	if mp.natsPublishedCounter, err = meter.Int64Counter(NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create NATS published counter: %w", err)
	}

	if mp.databaseQueriesCounter, err = meter.Int64Counter(DatabaseQueriesTotal,
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create database queries counter: %w", err)
	}

	if mp.databaseQueryDurationHist, err = meter.Float64Histogram(DatabaseQueryDuration,
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	); err != nil {
		return fmt.Errorf("failed to create database query duration histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.recording = false
	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordPledge records an accepted pledge and whether it funded its vault
func (mp *MetricsProvider) RecordPledge(amount float64, funded bool) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Bool(LabelFunded, funded))
	mp.pledgesCounter.Add(ctx, 1, attrs)
	mp.pledgedAmountCounter.Add(ctx, amount)
	if funded {
		mp.vaultsFundedCounter.Add(ctx, 1)
	}
}

// RecordHTTPRequest records a served request
func (mp *MetricsProvider) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelMethod, method),
		attribute.String(LabelRoute, route),
		attribute.Int(LabelStatus, status),
	)
	mp.httpRequestsCounter.Add(context.Background(), 1, attrs)
	mp.httpRequestDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// RecordRateLimitHit records a request rejected by the rate limiter
func (mp *MetricsProvider) RecordRateLimitHit(route string) {
	if !mp.isEnabled() {
		return
	}

	mp.rateLimitHitsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelRoute, route)),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordDatabaseQuery records a database query with duration
func (mp *MetricsProvider) RecordDatabaseQuery(repository, operation string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelRepository, repository),
		attribute.String(LabelOperation, operation),
	)
	mp.databaseQueriesCounter.Add(context.Background(), 1, attrs)
	mp.databaseQueryDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// MeasureDatabaseQuery returns a function to measure database query duration
// Usage:
//
//	defer mp.MeasureDatabaseQuery("vault", "ApplyPledge")()
func (mp *MetricsProvider) MeasureDatabaseQuery(repository, operation string) func() {
	start := time.Now()
	return func() {
		mp.RecordDatabaseQuery(repository, operation, time.Since(start))
	}
}

// isEnabled reports whether instruments exist and the provider is still running.
// Safe on a nil provider.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.recording
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider; nil before initialization.
// Every Record method is a no-op on a nil provider.
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
