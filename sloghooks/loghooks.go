// Package sloghooks logs resolver outcomes through log/slog with per-event
// sampling, so a job touching millions of events does not flood the log.
package sloghooks

import (
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/evcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	StoreHitEvery     uint64
	ArchiveHitEvery   uint64
	ComputedEvery     uint64
	DisallowedEvery   uint64
	ArchiveErrorEvery uint64

	// Computations slower than this are logged at Warn regardless of
	// sampling. 0 disables.
	SlowCompute time.Duration

	// Fingerprint groups archive errors in logs. Defaults to an xxhash of
	// the error text, which hides hosts and keys embedded in the message.
	Fingerprint func(error) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	storeHitCtr, archiveHitCtr, computedCtr, disallowedCtr, archiveErrCtr atomic.Uint64
}

var _ evcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) fingerprint(err error) string {
	if h.opts.Fingerprint != nil {
		return h.opts.Fingerprint(err)
	}
	if err == nil {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64String(err.Error()), 16)
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) StoreHit(q evcache.Quantity) {
	if h.l == nil || !sample(h.opts.StoreHitEvery, &h.storeHitCtr) {
		return
	}
	h.l.Debug("evcache.store_hit", "quantity", string(q))
}

func (h *Hooks) ArchiveHit(q evcache.Quantity) {
	if h.l == nil || !sample(h.opts.ArchiveHitEvery, &h.archiveHitCtr) {
		return
	}
	h.l.Debug("evcache.archive_hit", "quantity", string(q))
}

func (h *Hooks) Computed(q evcache.Quantity, d time.Duration) {
	if h.l == nil {
		return
	}
	if h.opts.SlowCompute > 0 && d >= h.opts.SlowCompute {
		h.l.Warn("evcache.slow_compute", "quantity", string(q), "elapsed", d)
		return
	}
	if !sample(h.opts.ComputedEvery, &h.computedCtr) {
		return
	}
	h.l.Debug("evcache.computed", "quantity", string(q), "elapsed", d)
}

func (h *Hooks) ComputeDisallowed(q evcache.Quantity) {
	if h.l == nil || !sample(h.opts.DisallowedEvery, &h.disallowedCtr) {
		return
	}
	h.l.Info("evcache.compute_disallowed", "quantity", string(q))
}

func (h *Hooks) ArchiveError(q evcache.Quantity, err error) {
	if h.l == nil || !sample(h.opts.ArchiveErrorEvery, &h.archiveErrCtr) {
		return
	}
	h.l.Warn("evcache.archive_error",
		"quantity", string(q),
		"err_id", h.fingerprint(err))
}
