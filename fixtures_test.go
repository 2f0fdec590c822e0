package evcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unkn0wn-root/evcache/lorentz"
	"github.com/unkn0wn-root/evcache/tuple"
)

var (
	htt01 = LegPair{First: 0, Second: 1}
	hbb01 = LegPair{First: 0, Second: 1}
)

// testRecord has two legs, four jets (b pair 0,1), one fat jet matching
// the b pair, one central kin-fit entry and two SVfit entries.
func testRecord() *tuple.Event {
	return &tuple.Event{
		ID:        tuple.ID{Run: 1, Lumi: 2, Event: 3},
		ChannelID: int(ChannelTauTau),
		Legs: []tuple.Lepton{
			{P4: lorentz.PtEtaPhiM(40, 0.3, 0.1, 1.777), Charge: 1, Type: tuple.LegTau},
			{P4: lorentz.PtEtaPhiM(35, -0.4, 2.9, 1.777), Charge: -1, Type: tuple.LegTau},
		},
		Jets: []tuple.Jet{
			{P4: lorentz.PtEtaPhiM(60, 0.5, 1.0, 10), CSV: 0.95, DeepCSV: 0.9, DeepFlavour: 0.8, PassPUID: true, JESUnc: 0.25},
			{P4: lorentz.PtEtaPhiM(45, -1.0, -1.0, 8), CSV: 0.85, DeepCSV: 0.7, DeepFlavour: 0.6, PassPUID: true, JESUnc: 0.25},
			{P4: lorentz.PtEtaPhiM(80, 3.0, 2.0, 12), CSV: 0.2, DeepCSV: 0.1, DeepFlavour: 0.05, PassPUID: false, JESUnc: 0.25},
			{P4: lorentz.PtEtaPhiM(15, 0.2, -2.5, 4), CSV: 0.99, DeepCSV: 0.95, DeepFlavour: 0.9, PassPUID: true, JESUnc: 0.25},
		},
		FatJets: []tuple.FatJet{{
			P4:           lorentz.PtEtaPhiM(200, 0, 0, 120),
			SoftDropMass: 110,
			SubJets: []tuple.SubJet{
				{P4: lorentz.PtEtaPhiM(59, 0.52, 1.02, 9)},
				{P4: lorentz.PtEtaPhiM(44, -0.98, -1.01, 7)},
			},
		}},
		MET:        tuple.MET{P4: lorentz.PtEtaPhiM(30, 0, -0.5, 0), Cov: [3]float32{100, 10, 120}},
		HiggsPairs: []uint32{tuple.PairToIndex(htt01)},

		KinFitHiggsIndex:  []uint32{tuple.PairToIndex(htt01)},
		KinFitJetPairID:   []uint32{tuple.PairToIndex(hbb01)},
		KinFitUncSource:   []int32{int32(SourceNone)},
		KinFitUncScale:    []int32{int32(ScaleCentral)},
		KinFitM:           []float32{250},
		KinFitChi2:        []float32{1.5},
		KinFitConvergence: []int32{1},

		SVfitHiggsIndex: []uint32{tuple.PairToIndex(htt01), tuple.PairToIndex(htt01)},
		SVfitUncSource:  []int32{int32(SourceNone), int32(SourceTauES)},
		SVfitUncScale:   []int32{int32(ScaleCentral), int32(ScaleUp)},
		SVfitIsValid:    []bool{true, false},
		SVfitP4:         []lorentz.Vector{lorentz.PtEtaPhiM(70, 0, 0, 125), {}},
		SVfitP4Error:    []lorentz.Vector{lorentz.PtEtaPhiM(5, 0, 0, 10), {}},
		SVfitMt:         []float32{90, 0},
		SVfitMtError:    []float32{4, 0},
	}
}

func testSelection(v Variation) Selection {
	sel := DefaultSelection()
	sel.BJets = hbb01
	sel.Source, sel.Scale = v.Source, v.Scale
	return sel
}

func newTestEvent(t *testing.T, v Variation, opts Options) *Event {
	t.Helper()
	ev, err := New(testRecord(), testSelection(v), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ev
}

// countingKinFitter returns a converged fit of mass 300 and counts calls.
type countingKinFitter struct {
	calls atomic.Int64
	delay time.Duration
	hook  func()
}

func (f *countingKinFitter) Fit(_ context.Context, in KinFitInput) (KinFitResult, error) {
	f.calls.Add(1)
	if f.hook != nil {
		f.hook()
	}
	time.Sleep(f.delay)
	return KinFitResult{Mass: 300, Chi2: 2, Probability: 0.4, Convergence: 1}, nil
}

type countingSVfitter struct {
	calls atomic.Int64
	valid bool
}

func (f *countingSVfitter) Fit(_ context.Context, in SVfitInput) (SVfitResult, error) {
	f.calls.Add(1)
	return SVfitResult{
		HasValidMomentum: f.valid,
		Momentum:         lorentz.PtEtaPhiM(66, 0.1, 0.2, 128),
		TransverseMass:   95,
	}, nil
}

type countingHooks struct {
	storeHits, archiveHits, computed, disallowed, archiveErrors atomic.Int64
}

func (h *countingHooks) StoreHit(Quantity)                { h.storeHits.Add(1) }
func (h *countingHooks) ArchiveHit(Quantity)              { h.archiveHits.Add(1) }
func (h *countingHooks) Computed(Quantity, time.Duration) { h.computed.Add(1) }
func (h *countingHooks) ComputeDisallowed(Quantity)       { h.disallowed.Add(1) }
func (h *countingHooks) ArchiveError(Quantity, error)     { h.archiveErrors.Add(1) }

var errArchiveDown = errors.New("archive down")

// memArchive is a generation-checked in-memory Archive.
type memArchive struct {
	mu      sync.Mutex
	gens    map[EventID]uint64
	kinFits map[string]KinFitResult
	svFits  map[string]SVfitResult
	failAll bool
}

var _ Archive = (*memArchive)(nil)

func newMemArchive() *memArchive {
	return &memArchive{
		gens:    make(map[EventID]uint64),
		kinFits: make(map[string]KinFitResult),
		svFits:  make(map[string]SVfitResult),
	}
}

func archiveKey(id EventID, k any) string { return fmt.Sprintf("%v|%v", id, k) }

func (a *memArchive) bump(id EventID) {
	a.mu.Lock()
	a.gens[id]++
	a.mu.Unlock()
}

func (a *memArchive) Generation(_ context.Context, id EventID) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAll {
		return 0, errArchiveDown
	}
	return a.gens[id], nil
}

func (a *memArchive) LoadKinFit(_ context.Context, id EventID, k KinFitKey) (KinFitResult, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAll {
		return KinFitResult{}, false, errArchiveDown
	}
	r, ok := a.kinFits[archiveKey(id, k)]
	return r, ok, nil
}

func (a *memArchive) LoadSVfit(_ context.Context, id EventID, k SVfitKey) (SVfitResult, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAll {
		return SVfitResult{}, false, errArchiveDown
	}
	r, ok := a.svFits[archiveKey(id, k)]
	return r, ok, nil
}

func (a *memArchive) StoreKinFit(_ context.Context, id EventID, k KinFitKey, r KinFitResult, gen uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAll {
		return errArchiveDown
	}
	if a.gens[id] == gen {
		a.kinFits[archiveKey(id, k)] = r
	}
	return nil
}

func (a *memArchive) StoreSVfit(_ context.Context, id EventID, k SVfitKey, r SVfitResult, gen uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAll {
		return errArchiveDown
	}
	if a.gens[id] == gen {
		a.svFits[archiveKey(id, k)] = r
	}
	return nil
}
