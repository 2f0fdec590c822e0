package evcache

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/evcache/lorentz"
	"github.com/unkn0wn-root/evcache/tuple"
)

// Event resolves derived quantities of one record for one variation.
// Each quantity is computed at most once per Event and then served from a
// memo slot; fit results are first looked up in the Store, then in the
// Archive, and only computed when the caller allows it.
//
// All methods are safe for concurrent use. A shallow copy (ev2 := *ev)
// shares the memo slots and the lock with the original.
type Event struct {
	rec     *tuple.Event
	store   *Store
	sel     Selection
	htt     LegPair
	channel Channel
	period  Period
	solvers Options
	archive Archive
	log     Logger
	hooks   Hooks

	m *memo
}

// memo holds the per-event slots. Exported methods take mu and call the
// *Locked variants, which never lock: a higher-level quantity resolves its
// dependencies through the same Locked chain under one critical section.
type memo struct {
	mu sync.Mutex

	legs      [2]slot[*LeptonCandidate]
	met       slot[*METCandidate]
	jets      slot[[]*JetCandidate]
	fatJets   slot[[]*FatJetCandidate]
	higgsBB   slot[*HiggsBB]
	higgsTT   slot[*HiggsTT]
	higgsTTSV slot[*HiggsTT]
	kinFit    slot[KinFitResult]
	svFit     slot[SVfitResult]
	mt2       slot[float64]

	// Parameterised quantities keep only the last computed value.
	jetScore paramSlot[JetFilter, []float32]
	fatJet   paramSlot[fatJetParams, *FatJetCandidate]

	mvaScore float64
}

type slot[T any] struct {
	v  T
	ok bool
}

func (s *slot[T]) get() (T, bool) { return s.v, s.ok }

func (s *slot[T]) set(v T) T {
	s.v, s.ok = v, true
	return v
}

type paramSlot[P, T any] struct {
	p  P
	v  T
	ok bool
}

func (e *Event) Record() *tuple.Event     { return e.rec }
func (e *Event) Store() *Store            { return e.store }
func (e *Event) ID() EventID              { return e.rec.ID }
func (e *Event) Channel() Channel         { return e.channel }
func (e *Event) Period() Period           { return e.period }
func (e *Event) Selection() Selection     { return e.sel }
func (e *Event) HiggsPair() LegPair       { return e.htt }
func (e *Event) NJets() int               { return len(e.rec.Jets) }
func (e *Event) NFatJets() int            { return len(e.rec.FatJets) }
func (e *Event) HasBjetPair() bool        { return e.sel.BJets.IsDefined() }
func (e *Event) HasVBFjetPair() bool      { return e.sel.VBFJets.IsDefined() }
func (e *Event) Variation() Variation     { return Variation{Source: e.sel.Source, Scale: e.sel.Scale} }
func (e *Event) SelectedBjets() LegPair   { return e.sel.BJets }
func (e *Event) SelectedVBFjets() LegPair { return e.sel.VBFJets }

// SVfitKey is the composite key of the event's SVfit request.
func (e *Event) SVfitKey() SVfitKey {
	return SVfitKey{HTT: e.htt, Source: e.sel.Source, Scale: e.sel.Scale}
}

// KinFitKey is the composite key of the event's kin-fit request.
func (e *Event) KinFitKey() KinFitKey {
	return KinFitKey{HTT: e.htt, HBB: e.sel.BJets, Source: e.sel.Source, Scale: e.sel.Scale}
}

// Leg returns the first (id 1) or second (id 2) leg of the selected pair.
func (e *Event) Leg(id int) (*LeptonCandidate, error) {
	if id != 1 && id != 2 {
		return nil, &LegIndexError{ID: id}
	}
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.legLocked(id - 1), nil
}

func (e *Event) FirstLeg() *LeptonCandidate {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.legLocked(0)
}

func (e *Event) SecondLeg() *LeptonCandidate {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.legLocked(1)
}

func (e *Event) legLocked(n int) *LeptonCandidate {
	if c, ok := e.m.legs[n].get(); ok {
		return c
	}
	idx := e.htt.First
	if n == 1 {
		idx = e.htt.Second
	}
	raw := &e.rec.Legs[idx]
	return e.m.legs[n].set(&LeptonCandidate{Index: idx, Momentum: raw.P4, Charge: raw.Charge, Raw: raw})
}

func (e *Event) MET() *METCandidate {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.metLocked()
}

func (e *Event) metLocked() *METCandidate {
	if c, ok := e.m.met.get(); ok {
		return c
	}
	cov := e.rec.MET.Cov
	return e.m.met.set(&METCandidate{
		Momentum: e.rec.MET.P4,
		Cov: [2][2]float64{
			{float64(cov[0]), float64(cov[1])},
			{float64(cov[1]), float64(cov[2])},
		},
	})
}

// HiggsBB returns the composite of the selected b-jet pair.
func (e *Event) HiggsBB() (*HiggsBB, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.higgsBBLocked()
}

func (e *Event) higgsBBLocked() (*HiggsBB, error) {
	if c, ok := e.m.higgsBB.get(); ok {
		return c, nil
	}
	if !e.HasBjetPair() {
		return nil, &SelectionError{What: "b-jet pair"}
	}
	jets := e.jetsLocked()
	return e.m.higgsBB.set(NewComposite(jets[e.sel.BJets.First], jets[e.sel.BJets.Second])), nil
}

// HiggsTT returns the tau-tau composite. With useSVfit its momentum is the
// SVfit momentum, which must be valid; otherwise it is the visible sum.
func (e *Event) HiggsTT(ctx context.Context, useSVfit, allowCalc bool) (*HiggsTT, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.higgsTTLocked(ctx, useSVfit, allowCalc)
}

func (e *Event) HiggsTTMomentum(ctx context.Context, useSVfit, allowCalc bool) (lorentz.Vector, error) {
	c, err := e.HiggsTT(ctx, useSVfit, allowCalc)
	if err != nil {
		return lorentz.Vector{}, err
	}
	return c.P4(), nil
}

func (e *Event) higgsTTLocked(ctx context.Context, useSVfit, allowCalc bool) (*HiggsTT, error) {
	if !useSVfit {
		if c, ok := e.m.higgsTT.get(); ok {
			return c, nil
		}
		return e.m.higgsTT.set(NewComposite(e.legLocked(0), e.legLocked(1))), nil
	}

	if c, ok := e.m.higgsTTSV.get(); ok {
		return c, nil
	}
	r, err := e.svFitLocked(ctx, allowCalc)
	if err != nil {
		return nil, &DependencyError{Quantity: "higgs_tt_svfit", Dependency: "svfit", Reason: "failed", Err: err}
	}
	if !r.HasValidMomentum {
		return nil, &DependencyError{Quantity: "higgs_tt_svfit", Dependency: "svfit", Reason: e.invalidReason(e.m.svFit.ok)}
	}
	return e.m.higgsTTSV.set(NewCompositeWithMomentum(e.legLocked(0), e.legLocked(1), r.Momentum)), nil
}

func (e *Event) invalidReason(resolved bool) string {
	if resolved {
		return "not converged"
	}
	return "not available"
}

// KinFit returns the kinematic fit result for the selected pairs and the
// event's variation. Without a stored result and with allowCalc false it
// returns the zero result (HasValidMass false) and leaves the slot empty.
func (e *Event) KinFit(ctx context.Context, allowCalc bool) (KinFitResult, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.kinFitLocked(ctx, allowCalc)
}

func (e *Event) kinFitLocked(ctx context.Context, allowCalc bool) (KinFitResult, error) {
	if r, ok := e.m.kinFit.get(); ok {
		return r, nil
	}
	if !e.HasBjetPair() {
		return KinFitResult{}, &SelectionError{What: "b-jet pair"}
	}
	chain := fitChain[KinFitKey, KinFitResult]{
		q:      QuantityKinFit,
		slot:   &e.m.kinFit,
		key:    e.KinFitKey(),
		lookup: e.store.LookupKinFit,
	}
	if e.archive != nil {
		chain.load, chain.save = e.archive.LoadKinFit, e.archive.StoreKinFit
	}
	if f := e.solvers.KinFitter; f != nil {
		chain.solve = func(ctx context.Context) (KinFitResult, error) {
			jets := e.jetsLocked()
			met := e.metLocked()
			return f.Fit(ctx, KinFitInput{
				Legs:   [2]lorentz.Vector{e.legLocked(0).P4(), e.legLocked(1).P4()},
				BJets:  [2]lorentz.Vector{jets[e.sel.BJets.First].P4(), jets[e.sel.BJets.Second].P4()},
				MET:    met.P4(),
				METCov: met.Cov,
				Source: e.sel.Source,
				Scale:  e.sel.Scale,
			})
		}
	}
	return resolveFit(ctx, e, chain, allowCalc)
}

// SVfit returns the di-tau mass estimate for the selected legs and the
// event's variation. Absence is signalled like KinFit.
func (e *Event) SVfit(ctx context.Context, allowCalc bool) (SVfitResult, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.svFitLocked(ctx, allowCalc)
}

func (e *Event) svFitLocked(ctx context.Context, allowCalc bool) (SVfitResult, error) {
	if r, ok := e.m.svFit.get(); ok {
		return r, nil
	}
	chain := fitChain[SVfitKey, SVfitResult]{
		q:      QuantitySVfit,
		slot:   &e.m.svFit,
		key:    e.SVfitKey(),
		lookup: e.store.LookupSVfit,
	}
	if e.archive != nil {
		chain.load, chain.save = e.archive.LoadSVfit, e.archive.StoreSVfit
	}
	if f := e.solvers.SVfitter; f != nil {
		chain.solve = func(ctx context.Context) (SVfitResult, error) {
			return f.Fit(ctx, SVfitInput{
				Legs:   [2]*LeptonCandidate{e.legLocked(0), e.legLocked(1)},
				MET:    e.metLocked(),
				Source: e.sel.Source,
				Scale:  e.sel.Scale,
			})
		}
	}
	return resolveFit(ctx, e, chain, allowCalc)
}

// ResonanceMomentum is the sum of the tau-tau and b-b composites, plus the
// missing transverse momentum when addMET is set.
func (e *Event) ResonanceMomentum(ctx context.Context, useSVfit, addMET, allowCalc bool) (lorentz.Vector, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	tt, err := e.higgsTTLocked(ctx, useSVfit, allowCalc)
	if err != nil {
		return lorentz.Vector{}, err
	}
	bb, err := e.higgsBBLocked()
	if err != nil {
		return lorentz.Vector{}, err
	}
	p := tt.P4().Add(bb.P4())
	if addMET {
		p = p.Add(e.metLocked().P4())
	}
	return p, nil
}

// MT2 returns the stransverse mass, computed once per event.
func (e *Event) MT2() (float64, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	if v, ok := e.m.mt2.get(); ok {
		return v, nil
	}
	bb, err := e.higgsBBLocked()
	if err != nil {
		return 0, err
	}
	calc := e.solvers.MT2
	if calc == nil {
		return 0, &SolverError{Solver: QuantityMT2, Err: ErrNoSolver}
	}
	start := time.Now()
	v := calc.MT2(
		[2]lorentz.Vector{bb.First().P4(), bb.Second().P4()},
		[2]lorentz.Vector{e.legLocked(0).P4(), e.legLocked(1).P4()},
		e.metLocked().P4(),
	)
	e.hooks.Computed(QuantityMT2, time.Since(start))
	return e.m.mt2.set(v), nil
}

func (e *Event) SetMvaScore(v float64) {
	e.m.mu.Lock()
	e.m.mvaScore = v
	e.m.mu.Unlock()
}

func (e *Event) MvaScore() float64 {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.m.mvaScore
}
