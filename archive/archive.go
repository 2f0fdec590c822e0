// Package archive keeps computed fit results across analysis passes on top
// of a byte Provider. It implements evcache.Archive.
//
// Entries are framed with the event generation they were computed under.
// Forget bumps the generation, after which every older entry of the event
// reads as a miss and is deleted on first read.
//
// Keys:
//
//	kinfit:<ns>:<run>:<lumi>:<event>:<digest>
//	svfit:<ns>:<run>:<lumi>:<event>:<digest>
package archive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/unkn0wn-root/evcache"
	"github.com/unkn0wn-root/evcache/codec"
	"github.com/unkn0wn-root/evcache/genstore"
	"github.com/unkn0wn-root/evcache/internal/util"
	"github.com/unkn0wn-root/evcache/internal/wire"
	"github.com/unkn0wn-root/evcache/provider"
)

const (
	defaultTTL          = 7 * 24 * time.Hour
	defaultGenRetention = 30 * 24 * time.Hour
	defaultSweep        = time.Hour
)

// Options configure an Archive. Namespace and Provider are required.
type Options struct {
	Namespace string
	Provider  provider.Provider
	GenStore  genstore.GenStore // nil => LocalGenStore owned by the archive

	KinFitCodec codec.Codec[evcache.KinFitResult] // nil => codec.KinFitWire
	SVfitCodec  codec.Codec[evcache.SVfitResult]  // nil => codec.SVfitWire

	TTL      time.Duration  // 0 => 7 days
	Logger   evcache.Logger // nil => NopLogger
	Disabled bool           // loads miss, stores are dropped
}

type Archive struct {
	ns       string
	provider provider.Provider
	gens     genstore.GenStore
	ownGens  bool
	kinFit   codec.Codec[evcache.KinFitResult]
	svFit    codec.Codec[evcache.SVfitResult]
	ttl      time.Duration
	log      evcache.Logger
	enabled  bool

	closeOnce sync.Once
}

var _ evcache.Archive = (*Archive)(nil)

func New(opts Options) (*Archive, error) {
	if opts.Provider == nil {
		return nil, errors.New("archive: provider is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("archive: namespace is required")
	}

	a := &Archive{
		ns:       opts.Namespace,
		provider: opts.Provider,
		gens:     opts.GenStore,
		kinFit:   opts.KinFitCodec,
		svFit:    opts.SVfitCodec,
		ttl:      coalesce(opts.TTL, defaultTTL),
		log:      coalesce[evcache.Logger](opts.Logger, evcache.NopLogger{}),
		enabled:  !opts.Disabled,
	}
	if a.gens == nil {
		a.gens = genstore.NewLocalGenStore(defaultSweep, defaultGenRetention)
		a.ownGens = true
	}
	if a.kinFit == nil {
		a.kinFit = codec.KinFitWire{}
	}
	if a.svFit == nil {
		a.svFit = codec.SVfitWire{}
	}
	return a, nil
}

func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func (a *Archive) Enabled() bool { return a.enabled }

// Generation returns the event's current generation.
func (a *Archive) Generation(ctx context.Context, id evcache.EventID) (uint64, error) {
	return a.gens.Snapshot(ctx, id)
}

func (a *Archive) LoadKinFit(ctx context.Context, id evcache.EventID, k evcache.KinFitKey) (evcache.KinFitResult, bool, error) {
	return load(ctx, a, entry[evcache.KinFitResult]{id: id, key: util.KinFitKey(a.ns, id, k), kind: wire.KindKinFit, codec: a.kinFit})
}

func (a *Archive) LoadSVfit(ctx context.Context, id evcache.EventID, k evcache.SVfitKey) (evcache.SVfitResult, bool, error) {
	return load(ctx, a, entry[evcache.SVfitResult]{id: id, key: util.SVfitKey(a.ns, id, k), kind: wire.KindSVfit, codec: a.svFit})
}

// StoreKinFit writes r iff the event generation still equals gen.
func (a *Archive) StoreKinFit(ctx context.Context, id evcache.EventID, k evcache.KinFitKey, r evcache.KinFitResult, gen uint64) error {
	return store(ctx, a, entry[evcache.KinFitResult]{id: id, key: util.KinFitKey(a.ns, id, k), kind: wire.KindKinFit, codec: a.kinFit}, r, gen)
}

// StoreSVfit writes r iff the event generation still equals gen.
func (a *Archive) StoreSVfit(ctx context.Context, id evcache.EventID, k evcache.SVfitKey, r evcache.SVfitResult, gen uint64) error {
	return store(ctx, a, entry[evcache.SVfitResult]{id: id, key: util.SVfitKey(a.ns, id, k), kind: wire.KindSVfit, codec: a.svFit}, r, gen)
}

// Forget invalidates every archived result of the event, including writes
// of computations already in flight.
func (a *Archive) Forget(ctx context.Context, id evcache.EventID) error {
	if !a.enabled {
		return nil
	}
	gen, err := a.gens.Bump(ctx, id)
	if err != nil {
		return fmt.Errorf("archive: forget %d:%d:%d: %w", id.Run, id.Lumi, id.Event, err)
	}
	a.log.Debug("forgot event (bumped gen)", evcache.Fields{"event": id, "newGen": gen})
	return nil
}

// Close releases the provider, and the generation store when the archive
// created it.
func (a *Archive) Close(ctx context.Context) error {
	var err error
	a.closeOnce.Do(func() {
		if a.ownGens {
			_ = a.gens.Close(ctx)
		}
		err = a.provider.Close(ctx)
	})
	return err
}

type entry[V any] struct {
	id    evcache.EventID
	key   string
	kind  wire.Kind
	codec codec.Codec[V]
}

func load[V any](ctx context.Context, a *Archive, e entry[V]) (V, bool, error) {
	var zero V
	if !a.enabled {
		return zero, false, nil
	}
	raw, ok, err := a.provider.Get(ctx, e.key)
	if err != nil || !ok {
		return zero, false, err
	}
	gen, payload, err := wire.Decode(raw, e.kind)
	if err != nil {
		a.heal(ctx, e.key, err.Error())
		return zero, false, nil
	}
	cur, err := a.gens.Snapshot(ctx, e.id)
	if err != nil {
		return zero, false, err
	}
	if gen != cur {
		a.heal(ctx, e.key, "stale generation")
		return zero, false, nil
	}
	v, err := e.codec.Decode(payload)
	if err != nil {
		a.heal(ctx, e.key, err.Error())
		return zero, false, nil
	}
	return v, true, nil
}

func store[V any](ctx context.Context, a *Archive, e entry[V], v V, gen uint64) error {
	if !a.enabled {
		return nil
	}
	cur, err := a.gens.Snapshot(ctx, e.id)
	if err != nil {
		return err
	}
	if cur != gen {
		a.log.Debug("store skipped (gen mismatch)", evcache.Fields{"key": e.key, "obs": gen, "cur": cur})
		return nil
	}
	payload, err := e.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("archive: encode %s: %w", e.kind, err)
	}
	frame := wire.Encode(e.kind, gen, payload)
	ok, err := a.provider.Set(ctx, e.key, frame, int64(len(frame)), a.ttl)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Debug("store rejected by provider (pressure)", evcache.Fields{"key": e.key})
	}
	return nil
}

func (a *Archive) heal(ctx context.Context, key, reason string) {
	if err := a.provider.Del(ctx, key); err != nil {
		a.log.Warn("self-heal delete failed", evcache.Fields{"key": key, "reason": reason, "err": err})
		return
	}
	a.log.Debug("dropped archive entry", evcache.Fields{"key": key, "reason": reason})
}
