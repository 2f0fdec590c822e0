package otelhooks

import (
	"github.com/unkn0wn-root/evcache/lorentz"
	"github.com/unkn0wn-root/evcache/tuple"
)

func recordWithSVfit() *tuple.Event {
	pair := tuple.PairToIndex(tuple.LegPair{First: 0, Second: 1})
	return &tuple.Event{
		ID:              tuple.ID{Run: 1, Lumi: 1, Event: 1},
		ChannelID:       0,
		Legs:            []tuple.Lepton{{P4: lorentz.PtEtaPhiM(30, 0, 0, 0)}, {P4: lorentz.PtEtaPhiM(25, 0, 2, 1.7)}},
		HiggsPairs:      []uint32{pair},
		SVfitHiggsIndex: []uint32{pair},
		SVfitUncSource:  []int32{0},
		SVfitUncScale:   []int32{0},
		SVfitIsValid:    []bool{true},
		SVfitP4:         []lorentz.Vector{lorentz.PtEtaPhiM(60, 0, 1, 125)},
		SVfitP4Error:    []lorentz.Vector{{}},
		SVfitMt:         []float32{80},
		SVfitMtError:    []float32{5},
	}
}
