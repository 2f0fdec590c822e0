package evcache

import "cmp"

// SVfitKey identifies an SVfit result: one leg pair under one variation.
type SVfitKey struct {
	HTT    LegPair
	Source UncertaintySource
	Scale  UncertaintyScale
}

// KinFitKey identifies a kinematic fit result. It depends on both the
// tau-tau pair and the b-jet pair.
type KinFitKey struct {
	HTT    LegPair
	HBB    LegPair
	Source UncertaintySource
	Scale  UncertaintyScale
}

func comparePair(a, b LegPair) int {
	if c := cmp.Compare(a.First, b.First); c != 0 {
		return c
	}
	return cmp.Compare(a.Second, b.Second)
}

// Compare orders keys by (HTT, Source, Scale).
func (k SVfitKey) Compare(o SVfitKey) int {
	if c := comparePair(k.HTT, o.HTT); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Source, o.Source); c != 0 {
		return c
	}
	return cmp.Compare(k.Scale, o.Scale)
}

// Compare orders keys by the SVfit fields first and HBB last.
func (k KinFitKey) Compare(o KinFitKey) int {
	if c := k.base().Compare(o.base()); c != 0 {
		return c
	}
	return comparePair(k.HBB, o.HBB)
}

func (k KinFitKey) base() SVfitKey {
	return SVfitKey{HTT: k.HTT, Source: k.Source, Scale: k.Scale}
}
