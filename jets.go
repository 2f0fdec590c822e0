package evcache

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/unkn0wn-root/evcache/cuts"
	"github.com/unkn0wn-root/evcache/lorentz"
)

// JetFilter selects and orders jets. The zero value keeps every jet in
// pt order; PtMin 0 and EtaMax 0 disable the pt and |eta| upper cuts. Source and Scale pick
// the jet energy-scale variation independently of the event's own.
type JetFilter struct {
	PtMin    float64
	EtaMax   float64
	EtaMin   float64
	ApplyPU  bool
	PassBtag bool
	Ordering JetOrdering
	Exclude  []int
	Source   UncertaintySource
	Scale    UncertaintyScale
}

// DefaultJetFilter applies the jet-ID acceptance and orders by DeepCSV.
func DefaultJetFilter() JetFilter {
	return JetFilter{PtMin: cuts.JetPt, EtaMax: cuts.JetEta, Ordering: OrderDeepCSV}
}

func (f JetFilter) equal(o JetFilter) bool {
	return f.PtMin == o.PtMin && f.EtaMax == o.EtaMax && f.EtaMin == o.EtaMin &&
		f.ApplyPU == o.ApplyPU && f.PassBtag == o.PassBtag && f.Ordering == o.Ordering &&
		f.Source == o.Source && f.Scale == o.Scale && slices.Equal(f.Exclude, o.Exclude)
}

type fatJetParams struct {
	massCut float64
	drCut   float64
}

// Jets returns the jet collection with the event's energy-scale variation
// applied. The slice is shared; do not modify it.
func (e *Event) Jets() []*JetCandidate {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.jetsLocked()
}

func (e *Event) jetsLocked() []*JetCandidate {
	if jets, ok := e.m.jets.get(); ok {
		return jets
	}
	return e.m.jets.set(e.buildJets(e.sel.Source, e.sel.Scale))
}

// buildJets scales every jet by 1 + scale*JESUnc for energy-scale sources.
func (e *Event) buildJets(source UncertaintySource, scale UncertaintyScale) []*JetCandidate {
	shift := source.IsJES() && scale != ScaleCentral
	out := make([]*JetCandidate, len(e.rec.Jets))
	for i := range e.rec.Jets {
		raw := &e.rec.Jets[i]
		p4 := raw.P4
		if shift {
			p4 = p4.Scale(1 + float64(scale)*float64(raw.JESUnc))
		}
		out[i] = &JetCandidate{Index: i, Momentum: p4, Raw: raw}
	}
	return out
}

func (e *Event) FatJets() []*FatJetCandidate {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.fatJetsLocked()
}

func (e *Event) fatJetsLocked() []*FatJetCandidate {
	if jets, ok := e.m.fatJets.get(); ok {
		return jets
	}
	out := make([]*FatJetCandidate, len(e.rec.FatJets))
	for i := range e.rec.FatJets {
		raw := &e.rec.FatJets[i]
		out[i] = &FatJetCandidate{Index: i, Momentum: raw.P4, Raw: raw}
	}
	return e.m.fatJets.set(out)
}

// BJet returns the first (1) or second (2) selected b jet.
func (e *Event) BJet(i int) (*JetCandidate, error) {
	return e.pairJet("b-jet", e.sel.BJets, i)
}

// VBFJet returns the first (1) or second (2) selected VBF jet.
func (e *Event) VBFJet(i int) (*JetCandidate, error) {
	return e.pairJet("VBF jet", e.sel.VBFJets, i)
}

func (e *Event) pairJet(what string, p LegPair, i int) (*JetCandidate, error) {
	if i != 1 && i != 2 {
		return nil, &IndexError{Collection: what, Index: i, Len: 2}
	}
	if !p.IsDefined() {
		return nil, &SelectionError{What: what + " pair"}
	}
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	jets := e.jetsLocked()
	if i == 1 {
		return jets[p.First], nil
	}
	return jets[p.Second], nil
}

// SelectedBjetIndices returns the selected b-jet indices in ascending
// order, or nil without a b-jet pair.
func (e *Event) SelectedBjetIndices() []int {
	if !e.HasBjetPair() {
		return nil
	}
	return []int{min(e.sel.BJets.First, e.sel.BJets.Second), max(e.sel.BJets.First, e.sel.BJets.Second)}
}

// SelectJets filters and orders the jets by f. The result is not memoized.
func (e *Event) SelectJets(f JetFilter) ([]*JetCandidate, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	return e.selectJetsLocked(f)
}

func (e *Event) selectJetsLocked(f JetFilter) ([]*JetCandidate, error) {
	var wp float64
	if f.PassBtag {
		tagger, ok := f.Ordering.tagger()
		if !ok {
			return nil, &UnsupportedError{What: "b-tag ordering", Value: f.Ordering}
		}
		if wp, ok = cuts.MediumWP(tagger, e.period); !ok {
			return nil, &UnsupportedError{What: "b-tag working point", Value: fmt.Sprintf("%s/%d", tagger, e.period)}
		}
	}
	if f.Ordering == OrderCSV && e.period != Run2016 {
		return nil, &UnsupportedError{What: "CSV ordering in period", Value: e.period}
	}

	jets := e.jetsLocked()
	if f.Source != e.sel.Source || f.Scale != e.sel.Scale {
		jets = e.buildJets(f.Source, f.Scale)
	}

	out := make([]*JetCandidate, 0, len(jets))
	for _, j := range jets {
		p := j.P4()
		absEta := math.Abs(p.Eta)
		switch {
		case slices.Contains(f.Exclude, j.Index):
			continue
		case f.PtMin > 0 && p.Pt <= f.PtMin:
			continue
		case f.EtaMax > 0 && absEta >= f.EtaMax:
			continue
		case absEta < f.EtaMin:
			continue
		case f.ApplyPU && !j.Raw.PassPUID:
			continue
		case f.PassBtag && (absEta >= cuts.BTagEta || f.Ordering.discriminator(j) <= wp):
			continue
		}
		out = append(out, j)
	}
	slices.SortStableFunc(out, func(a, b *JetCandidate) int {
		return cmp.Compare(f.Ordering.discriminator(b), f.Ordering.discriminator(a))
	})
	return out, nil
}

func (o JetOrdering) tagger() (cuts.Tagger, bool) {
	switch o {
	case OrderCSV:
		return cuts.CSVv2, true
	case OrderDeepCSV:
		return cuts.DeepCSV, true
	case OrderDeepFlavour:
		return cuts.DeepFlavour, true
	default:
		return 0, false
	}
}

func (o JetOrdering) discriminator(j *JetCandidate) float64 {
	switch o {
	case OrderCSV:
		return float64(j.Raw.CSV)
	case OrderDeepCSV:
		return float64(j.Raw.DeepCSV)
	case OrderDeepFlavour:
		return float64(j.Raw.DeepFlavour)
	default:
		return j.P4().Pt
	}
}

// JetScore returns one score per jet of SelectJets(f), in that order. The
// returned slice is a copy.
// Only the last filter's scores are kept: a call with a different filter
// recomputes and replaces them.
func (e *Event) JetScore(ctx context.Context, f JetFilter) ([]float32, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	if s := &e.m.jetScore; s.ok && s.p.equal(f) {
		return slices.Clone(s.v), nil
	}
	scorer := e.solvers.JetScorer
	if scorer == nil {
		return nil, &SolverError{Solver: QuantityJetScore, Err: ErrNoSolver}
	}
	jets, err := e.selectJetsLocked(f)
	if err != nil {
		return nil, err
	}
	tt, err := e.higgsTTLocked(ctx, false, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scores, err := scorer.Score(ctx, JetScoreInput{
		Jets:    jets,
		HTT:     tt.P4(),
		MET:     e.metLocked().P4(),
		Channel: e.channel,
		Period:  e.period,
	})
	if err != nil {
		return nil, &SolverError{Solver: QuantityJetScore, Err: err}
	}
	if len(scores) != len(jets) {
		return nil, &SolverError{
			Solver: QuantityJetScore,
			Err:    fmt.Errorf("got %d scores for %d jets", len(scores), len(jets)),
		}
	}
	elapsed := time.Since(start)
	e.hooks.Computed(QuantityJetScore, elapsed)
	e.log.Debug("computed", Fields{"quantity": QuantityJetScore, "event": e.rec.ID, "jets": len(jets), "elapsed": elapsed})

	e.m.jetScore = paramSlot[JetFilter, []float32]{p: cloneFilter(f), v: scores, ok: true}
	return slices.Clone(scores), nil
}

func cloneFilter(f JetFilter) JetFilter {
	f.Exclude = slices.Clone(f.Exclude)
	return f
}

// SelectFatJet returns the first fat jet with soft-drop mass of at least
// massCut whose sub-jets match both selected b jets within deltaRCut, or
// nil when none does. Only the last parameters' answer is kept.
func (e *Event) SelectFatJet(massCut, deltaRCut float64) (*FatJetCandidate, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	p := fatJetParams{massCut: massCut, drCut: deltaRCut}
	if s := &e.m.fatJet; s.ok && s.p == p {
		return s.v, nil
	}
	bb, err := e.higgsBBLocked()
	if err != nil {
		return nil, err
	}
	var found *FatJetCandidate
	for _, fj := range e.fatJetsLocked() {
		if float64(fj.Raw.SoftDropMass) < massCut || len(fj.Raw.SubJets) < 2 {
			continue
		}
		if matchSubJets(fj, bb.First().P4(), bb.Second().P4(), deltaRCut) {
			found = fj
			break
		}
	}
	e.m.fatJet = paramSlot[fatJetParams, *FatJetCandidate]{p: p, v: found, ok: true}
	return found, nil
}

// matchSubJets reports whether a and b are each within dr of a distinct
// sub-jet of fj.
func matchSubJets(fj *FatJetCandidate, a, b lorentz.Vector, dr float64) bool {
	sub := fj.Raw.SubJets
	for i := range sub {
		if lorentz.DeltaR(sub[i].P4, a) >= dr {
			continue
		}
		for k := range sub {
			if k != i && lorentz.DeltaR(sub[k].P4, b) < dr {
				return true
			}
		}
	}
	return false
}

// HT is the scalar pt sum of the jets. includeHbbJets keeps the selected
// b jets; applyPtEtaCut restricts the sum to jets passing the jet-ID
// acceptance.
func (e *Event) HT(includeHbbJets, applyPtEtaCut bool) float64 {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	var ht float64
	for _, j := range e.jetsLocked() {
		if !includeHbbJets && e.sel.BJets.Contains(j.Index) {
			continue
		}
		p := j.P4()
		if applyPtEtaCut && (p.Pt <= cuts.JetPt || math.Abs(p.Eta) >= cuts.JetEta) {
			continue
		}
		ht += p.Pt
	}
	return ht
}
