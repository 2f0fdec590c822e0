package evcache

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/unkn0wn-root/evcache/tuple"
)

// Variation is one systematic axis point: an uncertainty source shifted
// by a scale.
type Variation struct {
	Source UncertaintySource
	Scale  UncertaintyScale
}

// Central is the nominal variation.
var Central = Variation{Source: SourceNone, Scale: ScaleCentral}

func (v Variation) String() string {
	if v == Central {
		return "Central"
	}
	return fmt.Sprintf("%s_%s", v.Source, v.Scale)
}

// EventSet holds one Event per variation of a single record. All events
// share one Store; each has its own memo slots and lock.
type EventSet struct {
	store  *Store
	vars   []Variation
	events map[Variation]*Event
}

// NewEventSet builds resolvers for sel under each variation. Duplicate
// variations are dropped; an empty list means Central only.
func NewEventSet(rec *tuple.Event, sel Selection, vars []Variation, opts Options) (*EventSet, error) {
	if len(vars) == 0 {
		vars = []Variation{Central}
	}
	set := &EventSet{
		store:  NewStoreFrom(rec),
		events: make(map[Variation]*Event, len(vars)),
	}
	for _, v := range vars {
		if _, dup := set.events[v]; dup {
			continue
		}
		s := sel
		s.Source, s.Scale = v.Source, v.Scale
		ev, err := NewWithStore(rec, set.store, s, opts)
		if err != nil {
			return nil, fmt.Errorf("variation %s: %w", v, err)
		}
		set.events[v] = ev
		set.vars = append(set.vars, v)
	}
	return set, nil
}

func (s *EventSet) Store() *Store { return s.store }
func (s *EventSet) Len() int      { return len(s.vars) }

// Variations returns the variations in construction order.
func (s *EventSet) Variations() []Variation {
	return append([]Variation(nil), s.vars...)
}

// Event returns the resolver of v, or nil when v is not in the set.
func (s *EventSet) Event(v Variation) *Event { return s.events[v] }

// Each calls fn for every variation with at most limit calls in flight
// (limit <= 0 means no bound). The first error cancels ctx for the
// remaining calls and is returned.
func (s *EventSet) Each(ctx context.Context, limit int, fn func(ctx context.Context, ev *Event) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, v := range s.vars {
		ev := s.events[v]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, ev)
		})
	}
	return g.Wait()
}
