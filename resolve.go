package evcache

import (
	"context"
	"time"
)

// fitChain describes where a fit-style quantity can come from.
// load/save are nil without an Archive and solve is nil without a solver.
type fitChain[K, R any] struct {
	q      Quantity
	slot   *slot[R]
	key    K
	lookup func(K) (R, bool)
	load   func(context.Context, EventID, K) (R, bool, error)
	save   func(context.Context, EventID, K, R, uint64) error
	solve  func(context.Context) (R, error)
}

// resolveFit fills an empty slot from the Store, then the Archive, then the
// solver when allowCalc is set. A disallowed miss returns the zero R and
// leaves the slot empty. Callers hold the event lock.
func resolveFit[K, R any](ctx context.Context, e *Event, c fitChain[K, R], allowCalc bool) (R, error) {
	var zero R

	if r, ok := c.lookup(c.key); ok {
		e.hooks.StoreHit(c.q)
		e.log.Debug("store hit", Fields{"quantity": c.q, "event": e.rec.ID, "key": c.key})
		return c.slot.set(r), nil
	}

	if c.load != nil {
		r, ok, err := c.load(ctx, e.rec.ID, c.key)
		switch {
		case err != nil:
			e.archiveFailed(c.q, "load", err)
		case ok:
			e.hooks.ArchiveHit(c.q)
			e.log.Debug("archive hit", Fields{"quantity": c.q, "event": e.rec.ID, "key": c.key})
			return c.slot.set(r), nil
		}
	}

	if !allowCalc {
		e.hooks.ComputeDisallowed(c.q)
		e.log.Debug("not stored, computation disallowed", Fields{"quantity": c.q, "event": e.rec.ID, "key": c.key})
		return zero, nil
	}
	if c.solve == nil {
		return zero, &SolverError{Solver: c.q, Err: ErrNoSolver}
	}

	// snapshot before solving so a concurrent Forget wins over this write
	var gen uint64
	canSave := false
	if c.save != nil {
		g, err := e.archive.Generation(ctx, e.rec.ID)
		if err != nil {
			e.archiveFailed(c.q, "generation", err)
		} else {
			gen, canSave = g, true
		}
	}

	start := time.Now()
	r, err := c.solve(ctx)
	if err != nil {
		return zero, &SolverError{Solver: c.q, Err: err}
	}
	elapsed := time.Since(start)
	e.hooks.Computed(c.q, elapsed)
	e.log.Debug("computed", Fields{"quantity": c.q, "event": e.rec.ID, "key": c.key, "elapsed": elapsed})
	c.slot.set(r)

	if canSave {
		if err := c.save(ctx, e.rec.ID, c.key, r, gen); err != nil {
			e.archiveFailed(c.q, "store", err)
		}
	}
	return r, nil
}

func (e *Event) archiveFailed(q Quantity, op string, err error) {
	e.hooks.ArchiveError(q, err)
	e.log.Warn("archive "+op+" failed", Fields{"quantity": q, "event": e.rec.ID, "err": err})
}
