// Package asynchook moves Hooks calls off the resolver's critical section.
// The resolver calls hooks while holding the event lock, so a slow sink
// (network exporter, verbose logger) should be wrapped:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{StoreHitEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	ev, _ := evcache.New(rec, sel, evcache.Options{Hooks: hooks})
//
// Events are dropped when the queue is full; Dropped reports how many.
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/evcache"
)

type Hooks struct {
	inner   evcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ evcache.Hooks = (*Hooks)(nil)

func New(inner evcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue. Hooks must not be called after Close.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) StoreHit(q evcache.Quantity)          { h.try(func() { h.inner.StoreHit(q) }) }
func (h *Hooks) ArchiveHit(q evcache.Quantity)        { h.try(func() { h.inner.ArchiveHit(q) }) }
func (h *Hooks) ComputeDisallowed(q evcache.Quantity) { h.try(func() { h.inner.ComputeDisallowed(q) }) }
func (h *Hooks) Computed(q evcache.Quantity, d time.Duration) {
	h.try(func() { h.inner.Computed(q, d) })
}
func (h *Hooks) ArchiveError(q evcache.Quantity, err error) {
	h.try(func() { h.inner.ArchiveError(q, err) })
}
