package otelhooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/unkn0wn-root/evcache"
)

func collect(t *testing.T, r *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, r.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, q evcache.Quantity) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key("quantity")); ok && v.AsString() == string(q) {
			return dp.Value
		}
	}
	return 0
}

func TestCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	h, err := New(mp.Meter("evcache"))
	require.NoError(t, err)

	h.StoreHit(evcache.QuantityKinFit)
	h.StoreHit(evcache.QuantityKinFit)
	h.StoreHit(evcache.QuantitySVfit)
	h.ArchiveHit(evcache.QuantitySVfit)
	h.Computed(evcache.QuantityJetScore, 3*time.Millisecond)
	h.ComputeDisallowed(evcache.QuantityKinFit)
	h.ArchiveError(evcache.QuantityKinFit, nil)

	got := collect(t, reader)
	require.Equal(t, int64(2), sumFor(t, got["evcache.store.hits"], evcache.QuantityKinFit))
	require.Equal(t, int64(1), sumFor(t, got["evcache.store.hits"], evcache.QuantitySVfit))
	require.Equal(t, int64(1), sumFor(t, got["evcache.archive.hits"], evcache.QuantitySVfit))
	require.Equal(t, int64(1), sumFor(t, got["evcache.computes"], evcache.QuantityJetScore))
	require.Equal(t, int64(1), sumFor(t, got["evcache.compute.disallowed"], evcache.QuantityKinFit))
	require.Equal(t, int64(1), sumFor(t, got["evcache.archive.errors"], evcache.QuantityKinFit))

	hist, ok := got["evcache.compute.duration_ms"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	require.Equal(t, uint64(1), hist.DataPoints[0].Count)
	require.InDelta(t, 3.0, hist.DataPoints[0].Sum, 1e-9)
}

// Wired into a resolver, a stored fit shows up as one store hit.
func TestWithResolver(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	h, err := New(mp.Meter("evcache"))
	require.NoError(t, err)

	ev, err := evcache.New(recordWithSVfit(), evcache.DefaultSelection(), evcache.Options{Hooks: h})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := ev.SVfit(context.Background(), false)
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), sumFor(t, collect(t, reader)["evcache.store.hits"], evcache.QuantitySVfit))
}
