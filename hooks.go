package evcache

import "time"

// Hooks receive resolution outcomes. They run while the event lock is
// held, so implementations must be cheap and must not call back into the
// Event. Wrap slow sinks with hooks/async.
type Hooks interface {
	// The bulk Store answered a request.
	StoreHit(q Quantity)
	// The Archive answered a request the Store missed.
	ArchiveHit(q Quantity)
	// A collaborator was invoked and took d.
	Computed(q Quantity, d time.Duration)
	// Nothing was stored and the caller disallowed computation.
	ComputeDisallowed(q Quantity)
	// An archive read or write failed; the request went on without it.
	ArchiveError(q Quantity, err error)
}

// NopHooks is the default.
type NopHooks struct{}

func (NopHooks) StoreHit(Quantity)                {}
func (NopHooks) ArchiveHit(Quantity)              {}
func (NopHooks) Computed(Quantity, time.Duration) {}
func (NopHooks) ComputeDisallowed(Quantity)       {}
func (NopHooks) ArchiveError(Quantity, error)     {}
