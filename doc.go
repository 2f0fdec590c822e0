// Package evcache resolves expensive derived quantities of reconstructed
// collision events and caches them for the lifetime of the event.
//
// Components:
//   - Store: bulk cache of fit results persisted with the record, indexed
//     by composite keys (SVfitKey, KinFitKey). Populated once, read-only after.
//   - Event: lazy resolver with one memo slot per quantity, guarded by a
//     per-event lock. Shallow copies share slots and lock.
//   - Archive: optional cross-pass store consulted after the Store and
//     before any solver (see package archive).
//   - Solvers: KinFitter, SVfitter, JetScorer, MT2Calculator. Called only
//     on a miss with computation allowed.
//
// Lookup chain for fit results:
//
//	memo slot -> Store -> Archive -> solver (iff allowCalc)
//
// A miss with allowCalc false returns the zero result, whose validity flag
// is false, and leaves the slot empty so a later call may still compute.
//
// Usage:
//
//	ev, err := evcache.New(rec, sel, evcache.Options{KinFitter: fitter})
//	r, err := ev.KinFit(ctx, true)
//	if err == nil && r.HasValidMass() { ... }
package evcache
