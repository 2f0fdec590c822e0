package evcache

import (
	"github.com/unkn0wn-root/evcache/lorentz"
	"github.com/unkn0wn-root/evcache/tuple"
)

// Momentumer is anything with a 4-momentum.
type Momentumer interface {
	P4() lorentz.Vector
}

type LeptonCandidate struct {
	Index    int
	Momentum lorentz.Vector
	Charge   int
	Raw      *tuple.Lepton
}

func (c *LeptonCandidate) P4() lorentz.Vector { return c.Momentum }

// JetCandidate carries the jet momentum after any energy-scale variation.
type JetCandidate struct {
	Index    int
	Momentum lorentz.Vector
	Raw      *tuple.Jet
}

func (c *JetCandidate) P4() lorentz.Vector { return c.Momentum }

type FatJetCandidate struct {
	Index    int
	Momentum lorentz.Vector
	Raw      *tuple.FatJet
}

func (c *FatJetCandidate) P4() lorentz.Vector { return c.Momentum }

type METCandidate struct {
	Momentum lorentz.Vector
	Cov      [2][2]float64
}

func (c *METCandidate) P4() lorentz.Vector { return c.Momentum }

// Composite is an immutable two-body candidate. Once built by the resolver
// it is shared by every caller within the event.
type Composite[A, B Momentumer] struct {
	first  A
	second B
	p4     lorentz.Vector
}

// NewComposite sums the daughters' momenta.
func NewComposite[A, B Momentumer](first A, second B) *Composite[A, B] {
	return &Composite[A, B]{first: first, second: second, p4: first.P4().Add(second.P4())}
}

// NewCompositeWithMomentum uses p4 instead of the daughter sum, e.g. a
// fitted di-tau momentum.
func NewCompositeWithMomentum[A, B Momentumer](first A, second B, p4 lorentz.Vector) *Composite[A, B] {
	return &Composite[A, B]{first: first, second: second, p4: p4}
}

func (c *Composite[A, B]) First() A           { return c.first }
func (c *Composite[A, B]) Second() B          { return c.second }
func (c *Composite[A, B]) P4() lorentz.Vector { return c.p4 }

// Momentum is an alias of P4.
func (c *Composite[A, B]) Momentum() lorentz.Vector { return c.p4 }

type (
	HiggsTT = Composite[*LeptonCandidate, *LeptonCandidate]
	HiggsBB = Composite[*JetCandidate, *JetCandidate]
)
