// Package otelhooks exports resolver outcomes as OpenTelemetry metrics,
// each tagged with the quantity kind.
//
//	evcache.store.hits           counter
//	evcache.archive.hits         counter
//	evcache.computes             counter
//	evcache.compute.disallowed   counter
//	evcache.archive.errors       counter
//	evcache.compute.duration_ms  histogram
package otelhooks

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/unkn0wn-root/evcache"
)

type Hooks struct {
	storeHits     metric.Int64Counter
	archiveHits   metric.Int64Counter
	computes      metric.Int64Counter
	disallowed    metric.Int64Counter
	archiveErrors metric.Int64Counter
	duration      metric.Float64Histogram
}

var _ evcache.Hooks = (*Hooks)(nil)

func New(meter metric.Meter) (*Hooks, error) {
	var (
		h    Hooks
		errs []error
	)
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}
	h.storeHits = counter("evcache.store.hits", "Requests answered by the bulk store")
	h.archiveHits = counter("evcache.archive.hits", "Requests answered by the archive")
	h.computes = counter("evcache.computes", "Solver invocations")
	h.disallowed = counter("evcache.compute.disallowed", "Misses with computation disallowed")
	h.archiveErrors = counter("evcache.archive.errors", "Failed archive reads and writes")

	var err error
	h.duration, err = meter.Float64Histogram("evcache.compute.duration_ms",
		metric.WithDescription("Solver wall time"),
		metric.WithUnit("ms"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &h, nil
}

func attrs(q evcache.Quantity) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("quantity", string(q)))
}

func (h *Hooks) StoreHit(q evcache.Quantity) {
	h.storeHits.Add(context.Background(), 1, attrs(q))
}

func (h *Hooks) ArchiveHit(q evcache.Quantity) {
	h.archiveHits.Add(context.Background(), 1, attrs(q))
}

func (h *Hooks) Computed(q evcache.Quantity, d time.Duration) {
	ctx := context.Background()
	h.computes.Add(ctx, 1, attrs(q))
	h.duration.Record(ctx, float64(d)/float64(time.Millisecond), attrs(q))
}

func (h *Hooks) ComputeDisallowed(q evcache.Quantity) {
	h.disallowed.Add(context.Background(), 1, attrs(q))
}

func (h *Hooks) ArchiveError(q evcache.Quantity, _ error) {
	h.archiveErrors.Add(context.Background(), 1, attrs(q))
}
