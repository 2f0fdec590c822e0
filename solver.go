package evcache

import (
	"context"

	"github.com/unkn0wn-root/evcache/lorentz"
)

// External collaborators. The resolver calls them only on a cache miss
// with computation allowed, while holding the event lock. An error means
// the solver could not run at all; a non-converged fit is reported through
// the result's validity flag instead.
//
// A collaborator must not call back into the Event that invoked it: the
// lock is not reentrant and such a call blocks forever. Everything a solver
// needs is passed in its input.

type KinFitInput struct {
	Legs   [2]lorentz.Vector
	BJets  [2]lorentz.Vector
	MET    lorentz.Vector
	METCov [2][2]float64
	Source UncertaintySource
	Scale  UncertaintyScale
}

// KinFitter runs the four-body kinematic fit. It must not call methods of
// the invoking Event.
type KinFitter interface {
	Fit(ctx context.Context, in KinFitInput) (KinFitResult, error)
}

type KinFitFunc func(ctx context.Context, in KinFitInput) (KinFitResult, error)

func (f KinFitFunc) Fit(ctx context.Context, in KinFitInput) (KinFitResult, error) { return f(ctx, in) }

type SVfitInput struct {
	Legs   [2]*LeptonCandidate
	MET    *METCandidate
	Source UncertaintySource
	Scale  UncertaintyScale
}

// SVfitter estimates the di-tau mass. It must not call methods of the
// invoking Event.
type SVfitter interface {
	Fit(ctx context.Context, in SVfitInput) (SVfitResult, error)
}

type SVfitFunc func(ctx context.Context, in SVfitInput) (SVfitResult, error)

func (f SVfitFunc) Fit(ctx context.Context, in SVfitInput) (SVfitResult, error) { return f(ctx, in) }

type JetScoreInput struct {
	Jets    []*JetCandidate
	HTT     lorentz.Vector
	MET     lorentz.Vector
	Channel Channel
	Period  Period
}

// JetScorer returns one score per input jet, in input order. It must not
// call methods of the invoking Event.
type JetScorer interface {
	Score(ctx context.Context, in JetScoreInput) ([]float32, error)
}

type JetScoreFunc func(ctx context.Context, in JetScoreInput) ([]float32, error)

func (f JetScoreFunc) Score(ctx context.Context, in JetScoreInput) ([]float32, error) {
	return f(ctx, in)
}

// MT2Calculator computes the stransverse mass of the b-jet and leg pairs.
type MT2Calculator interface {
	MT2(bjets, legs [2]lorentz.Vector, met lorentz.Vector) float64
}

type MT2Func func(bjets, legs [2]lorentz.Vector, met lorentz.Vector) float64

func (f MT2Func) MT2(bjets, legs [2]lorentz.Vector, met lorentz.Vector) float64 {
	return f(bjets, legs, met)
}
