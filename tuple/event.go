// Package tuple defines the persisted per-event record consumed by the
// evcache bulk store: reconstructed objects plus index-aligned arrays of
// precomputed fit results.
package tuple

import (
	"github.com/unkn0wn-root/evcache/lorentz"
)

// ID identifies a collision event.
type ID struct {
	Run   uint32 `json:"run" msgpack:"run" cbor:"1,keyasint"`
	Lumi  uint32 `json:"lumi" msgpack:"lumi" cbor:"2,keyasint"`
	Event uint64 `json:"evt" msgpack:"evt" cbor:"3,keyasint"`
}

type LegType int8

const (
	LegElectron LegType = iota
	LegMuon
	LegTau
	LegJet
)

type Lepton struct {
	P4       lorentz.Vector `json:"p4" msgpack:"p4" cbor:"1,keyasint"`
	Charge   int            `json:"q" msgpack:"q" cbor:"2,keyasint"`
	Type     LegType        `json:"type" msgpack:"type" cbor:"3,keyasint"`
	Iso      float32        `json:"iso" msgpack:"iso" cbor:"4,keyasint"`
	GenMatch int            `json:"gen_match" msgpack:"gen_match" cbor:"5,keyasint"`
}

type Jet struct {
	P4            lorentz.Vector `json:"p4" msgpack:"p4" cbor:"1,keyasint"`
	CSV           float32        `json:"csv" msgpack:"csv" cbor:"2,keyasint"`
	DeepCSV       float32        `json:"deep_csv" msgpack:"deep_csv" cbor:"3,keyasint"`
	DeepFlavour   float32        `json:"deep_flavour" msgpack:"deep_flavour" cbor:"4,keyasint"`
	PassPUID      bool           `json:"pu_id" msgpack:"pu_id" cbor:"5,keyasint"`
	HadronFlavour int            `json:"hadron_flavour" msgpack:"hadron_flavour" cbor:"6,keyasint"`
	// JESUnc is the total relative jet energy scale uncertainty.
	JESUnc float32 `json:"jes_unc" msgpack:"jes_unc" cbor:"7,keyasint"`
}

type SubJet struct {
	P4 lorentz.Vector `json:"p4" msgpack:"p4" cbor:"1,keyasint"`
}

type FatJet struct {
	P4           lorentz.Vector `json:"p4" msgpack:"p4" cbor:"1,keyasint"`
	SoftDropMass float32        `json:"m_softdrop" msgpack:"m_softdrop" cbor:"2,keyasint"`
	SubJets      []SubJet       `json:"subjets" msgpack:"subjets" cbor:"3,keyasint"`
}

type MET struct {
	P4 lorentz.Vector `json:"p4" msgpack:"p4" cbor:"1,keyasint"`
	// Cov is the xx, xy, yy covariance.
	Cov [3]float32 `json:"cov" msgpack:"cov" cbor:"2,keyasint"`
}

// Event is one persisted record. The KinFit* and SVfit* groups are
// parallel arrays: the n-th entries of a group describe one stored result.
type Event struct {
	ID        ID       `json:"id" msgpack:"id" cbor:"1,keyasint"`
	ChannelID int      `json:"channel" msgpack:"channel" cbor:"2,keyasint"`
	Legs      []Lepton `json:"legs" msgpack:"legs" cbor:"3,keyasint"`
	Jets      []Jet    `json:"jets" msgpack:"jets" cbor:"4,keyasint"`
	FatJets   []FatJet `json:"fat_jets" msgpack:"fat_jets" cbor:"5,keyasint"`
	MET       MET      `json:"met" msgpack:"met" cbor:"6,keyasint"`
	// HiggsPairs lists the encoded leg pairs of the tau-tau candidates.
	HiggsPairs []uint32 `json:"higgs_pairs" msgpack:"higgs_pairs" cbor:"7,keyasint"`

	KinFitHiggsIndex  []uint32  `json:"kinFit_Higgs_index" msgpack:"kinFit_Higgs_index" cbor:"20,keyasint"`
	KinFitJetPairID   []uint32  `json:"kinFit_jetPairId" msgpack:"kinFit_jetPairId" cbor:"21,keyasint"`
	KinFitUncSource   []int32   `json:"kinFit_unc_source" msgpack:"kinFit_unc_source" cbor:"22,keyasint"`
	KinFitUncScale    []int32   `json:"kinFit_unc_scale" msgpack:"kinFit_unc_scale" cbor:"23,keyasint"`
	KinFitM           []float32 `json:"kinFit_m" msgpack:"kinFit_m" cbor:"24,keyasint"`
	KinFitChi2        []float32 `json:"kinFit_chi2" msgpack:"kinFit_chi2" cbor:"25,keyasint"`
	KinFitConvergence []int32   `json:"kinFit_convergence" msgpack:"kinFit_convergence" cbor:"26,keyasint"`

	SVfitHiggsIndex []uint32         `json:"SVfit_Higgs_index" msgpack:"SVfit_Higgs_index" cbor:"30,keyasint"`
	SVfitUncSource  []int32          `json:"SVfit_unc_source" msgpack:"SVfit_unc_source" cbor:"31,keyasint"`
	SVfitUncScale   []int32          `json:"SVfit_unc_scale" msgpack:"SVfit_unc_scale" cbor:"32,keyasint"`
	SVfitIsValid    []bool           `json:"SVfit_is_valid" msgpack:"SVfit_is_valid" cbor:"33,keyasint"`
	SVfitP4         []lorentz.Vector `json:"SVfit_p4" msgpack:"SVfit_p4" cbor:"34,keyasint"`
	SVfitP4Error    []lorentz.Vector `json:"SVfit_p4_error" msgpack:"SVfit_p4_error" cbor:"35,keyasint"`
	SVfitMt         []float32        `json:"SVfit_mt" msgpack:"SVfit_mt" cbor:"36,keyasint"`
	SVfitMtError    []float32        `json:"SVfit_mt_error" msgpack:"SVfit_mt_error" cbor:"37,keyasint"`
}

// NKinFit is the number of stored kin-fit entries.
func (e *Event) NKinFit() int { return len(e.KinFitHiggsIndex) }

// NSVfit is the number of stored SVfit entries.
func (e *Event) NSVfit() int { return len(e.SVfitHiggsIndex) }
