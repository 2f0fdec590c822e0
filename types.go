package evcache

import (
	"fmt"

	"github.com/unkn0wn-root/evcache/cuts"
	"github.com/unkn0wn-root/evcache/tuple"
)

type (
	LegPair = tuple.LegPair
	EventID = tuple.ID
)

// UncertaintySource tags the systematic a result was produced under.
// Values are the numeric codes stored in persisted records.
type UncertaintySource int32

const (
	SourceNone UncertaintySource = iota
	SourceTauES
	SourceJetFullTotal
	SourceJetReducedTotal
	SourceTopPt
	SourceEleFakingTauES
	SourceMuFakingTauES
	SourceTauESDM0
	SourceTauESDM1
	SourceTauESDM10
	SourceTauESDM11
	SourceEleES
	SourceMuonES
	SourceBTagLF
	SourceBTagHF
	SourceBTagHFStats1
	SourceBTagHFStats2
	SourceBTagLFStats1
	SourceBTagLFStats2
	SourceBTagCFErr1
	SourceBTagCFErr2
	SourceEffB
)

var sourceNames = [...]string{
	"None", "TauES", "JetFull_Total", "JetReduced_Total", "TopPt", "EleFakingTauES",
	"MuFakingTauES", "TauES_DM0", "TauES_DM1", "TauES_DM10", "TauES_DM11", "EleES",
	"MuonES", "btag_lf", "btag_hf", "btag_hfstats1", "btag_hfstats2", "btag_lfstats1",
	"btag_lfstats2", "btag_cferr1", "btag_cferr2", "Eff_b",
}

func (s UncertaintySource) String() string {
	if s >= 0 && int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("UncertaintySource(%d)", int32(s))
}

// ParseUncertaintySource is the inverse of String.
func ParseUncertaintySource(name string) (UncertaintySource, error) {
	for i, n := range sourceNames {
		if n == name {
			return UncertaintySource(i), nil
		}
	}
	return 0, &UnsupportedError{What: "uncertainty source", Value: name}
}

// IsJES reports whether s shifts the jet energy scale.
func (s UncertaintySource) IsJES() bool {
	return s == SourceJetFullTotal || s == SourceJetReducedTotal
}

type UncertaintyScale int32

const (
	ScaleDown    UncertaintyScale = -1
	ScaleCentral UncertaintyScale = 0
	ScaleUp      UncertaintyScale = 1
)

func (s UncertaintyScale) String() string {
	switch s {
	case ScaleDown:
		return "Down"
	case ScaleCentral:
		return "Central"
	case ScaleUp:
		return "Up"
	default:
		return fmt.Sprintf("UncertaintyScale(%d)", int32(s))
	}
}

type Channel int

const (
	ChannelETau Channel = iota
	ChannelMuTau
	ChannelTauTau
	ChannelMuMu
)

func (c Channel) String() string {
	switch c {
	case ChannelETau:
		return "eTau"
	case ChannelMuTau:
		return "muTau"
	case ChannelTauTau:
		return "tauTau"
	case ChannelMuMu:
		return "muMu"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

type Period = cuts.Period

const (
	Run2016 = cuts.Run2016
	Run2017 = cuts.Run2017
	Run2018 = cuts.Run2018
)

// JetOrdering selects the discriminator used to rank jets.
type JetOrdering int

const (
	OrderPt JetOrdering = iota
	OrderCSV
	OrderDeepCSV
	OrderDeepFlavour
)

func (o JetOrdering) String() string {
	switch o {
	case OrderPt:
		return "Pt"
	case OrderCSV:
		return "CSV"
	case OrderDeepCSV:
		return "DeepCSV"
	case OrderDeepFlavour:
		return "DeepFlavour"
	default:
		return fmt.Sprintf("JetOrdering(%d)", int(o))
	}
}

// Quantity names a derived quantity kind in logs and hooks.
type Quantity string

const (
	QuantityKinFit   Quantity = "kinfit"
	QuantitySVfit    Quantity = "svfit"
	QuantityJetScore Quantity = "jet_score"
	QuantityMT2      Quantity = "mt2"
)
