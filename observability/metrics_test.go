package observability

import (
	"context"
	"testing"
	"time"

	"hushhush/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newRecordingProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = meterProvider.Shutdown(context.Background()) })

	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.createInstruments(meterProvider.Meter("test")))
	mp.initialized = true
	mp.recording = true
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Aggregation)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			found[m.Name] = m.Data
		}
	}
	return found
}

func TestMetricsProvider_RecordPledge(t *testing.T) {
	mp, reader := newRecordingProvider(t)

	mp.RecordPledge(30000, false)
	mp.RecordPledge(25000, true)

	found := collect(t, reader)

	amount, ok := found[PledgedAmountTotal].(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.Equal(t, 55000.0, amount.DataPoints[0].Value)

	funded, ok := found[VaultsFundedTotal].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, funded.DataPoints, 1)
	assert.Equal(t, int64(1), funded.DataPoints[0].Value)

	pledges, ok := found[PledgesTotal].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, pledges.DataPoints, 2)
}

func TestMetricsProvider_HTTPAndDatabase(t *testing.T) {
	mp, reader := newRecordingProvider(t)

	mp.RecordHTTPRequest("GET", "/api/vaults", 200, 15*time.Millisecond)
	mp.RecordRateLimitHit("/api/auth/login")
	mp.MeasureDatabaseQuery("vault", "List")()

	found := collect(t, reader)

	assert.Contains(t, found, HTTPRequestsTotal)
	assert.Contains(t, found, HTTPRequestDuration)
	assert.Contains(t, found, RateLimitHitsTotal)
	assert.Contains(t, found, DatabaseQueriesTotal)
	assert.Contains(t, found, DatabaseQueryDuration)
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		var mp *MetricsProvider
		assert.NotPanics(t, func() {
			mp.RecordPledge(100, true)
			mp.MeasureDatabaseQuery("user", "GetByID")()
		})
	})

	t.Run("otel disabled", func(t *testing.T) {
		mp := NewMetricsProvider(config.NewTestConfig())
		require.NoError(t, mp.Initialize(context.Background()))
		assert.False(t, mp.isEnabled())
		assert.NotPanics(t, func() { mp.RecordHTTPRequest("GET", "/", 200, time.Millisecond) })
	})

	t.Run("exporter none", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.OTelEnabled = true
		cfg.OTelExporterType = "none"
		mp := NewMetricsProvider(cfg)
		require.NoError(t, mp.Initialize(context.Background()))
		assert.NotPanics(t, func() { mp.RecordRateLimitHit("/api/auth/login") })
	})

	t.Run("unknown exporter", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.OTelEnabled = true
		cfg.OTelExporterType = "carrier-pigeon"
		assert.Error(t, NewMetricsProvider(cfg).Initialize(context.Background()))
	})
}
