package evcache

import (
	"context"

	"github.com/unkn0wn-root/evcache/tuple"
)

// Archive keeps computed fit results across analysis passes, keyed by
// event id and composite key. It is consulted after the Store and before
// any solver. See the archive package for the provider-backed version.
//
// Writes are generation-checked: the resolver snapshots Generation before
// computing and passes it to Store*; a write whose generation moved in the
// meantime must be dropped.
type Archive interface {
	Generation(ctx context.Context, id EventID) (uint64, error)
	LoadKinFit(ctx context.Context, id EventID, k KinFitKey) (KinFitResult, bool, error)
	LoadSVfit(ctx context.Context, id EventID, k SVfitKey) (SVfitResult, bool, error)
	StoreKinFit(ctx context.Context, id EventID, k KinFitKey, r KinFitResult, gen uint64) error
	StoreSVfit(ctx context.Context, id EventID, k SVfitKey, r SVfitResult, gen uint64) error
}

// Options configure an Event. Every field is optional. Missing solvers
// only matter when a computation is actually requested.
type Options struct {
	KinFitter KinFitter
	SVfitter  SVfitter
	JetScorer JetScorer
	MT2       MT2Calculator

	Archive Archive // nil => no cross-pass reuse
	Logger  Logger  // nil => NopLogger
	Hooks   Hooks   // nil => NopHooks
	Period  Period  // 0 => Run2018
}

// Selection names the objects chosen by the event selection, and the
// variation this Event resolves quantities for. Use DefaultSelection as a
// starting point: the zero LegPair {0,0} is not "no pair".
type Selection struct {
	HiggsIndex int     // index into the record's HiggsPairs
	BJets      LegPair // indices into Jets, or tuple.Undefined
	VBFJets    LegPair // indices into Jets, or tuple.Undefined
	Source     UncertaintySource
	Scale      UncertaintyScale
}

// DefaultSelection selects the first tau-tau candidate, no jets, central.
func DefaultSelection() Selection {
	return Selection{BJets: tuple.Undefined, VBFJets: tuple.Undefined}
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// New populates a Store from rec and returns the resolver for sel.
func New(rec *tuple.Event, sel Selection, opts Options) (*Event, error) {
	return NewWithStore(rec, NewStoreFrom(rec), sel, opts)
}

// NewWithStore returns a resolver over an already populated store. The
// store may be shared by resolvers of other variations of the same record.
func NewWithStore(rec *tuple.Event, store *Store, sel Selection, opts Options) (*Event, error) {
	channel := Channel(rec.ChannelID)
	if channel < ChannelETau || channel > ChannelMuMu {
		return nil, &UnsupportedError{What: "channel", Value: rec.ChannelID}
	}
	if sel.HiggsIndex < 0 || sel.HiggsIndex >= len(rec.HiggsPairs) {
		return nil, &IndexError{Collection: "higgs candidate", Index: sel.HiggsIndex, Len: len(rec.HiggsPairs)}
	}
	htt := tuple.IndexToPair(rec.HiggsPairs[sel.HiggsIndex])
	if err := checkPair("leg", htt, len(rec.Legs), true); err != nil {
		return nil, err
	}
	if err := checkPair("jet", sel.BJets, len(rec.Jets), false); err != nil {
		return nil, err
	}
	if err := checkPair("jet", sel.VBFJets, len(rec.Jets), false); err != nil {
		return nil, err
	}

	return &Event{
		rec:     rec,
		store:   store,
		sel:     sel,
		htt:     htt,
		channel: channel,
		period:  coalesce[Period](opts.Period, Run2018),
		solvers: opts,
		archive: opts.Archive,
		log:     coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:   coalesce[Hooks](opts.Hooks, NopHooks{}),
		m:       &memo{},
	}, nil
}

// checkPair accepts tuple.Undefined as "no pair". Any other negative index
// is out of range.
func checkPair(collection string, p LegPair, n int, required bool) error {
	if p == tuple.Undefined {
		if required {
			return &SelectionError{What: collection + " pair"}
		}
		return nil
	}
	for _, idx := range [2]int{p.First, p.Second} {
		if idx < 0 || idx >= n {
			return &IndexError{Collection: collection, Index: idx, Len: n}
		}
	}
	if p.First == p.Second {
		return &UnsupportedError{What: collection + " pair", Value: p}
	}
	return nil
}
