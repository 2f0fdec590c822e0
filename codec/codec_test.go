package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/unkn0wn-root/evcache"
	"github.com/unkn0wn-root/evcache/lorentz"
	"github.com/unkn0wn-root/evcache/tuple"
)

func sampleRecord() tuple.Event {
	pair := tuple.PairToIndex(tuple.LegPair{First: 0, Second: 1})
	return tuple.Event{
		ID:        tuple.ID{Run: 315252, Lumi: 17, Event: 9081726354},
		ChannelID: 2,
		Legs: []tuple.Lepton{
			{P4: lorentz.PtEtaPhiM(41.5, 0.3, 0.1, 1.777), Charge: 1, Type: tuple.LegTau},
			{P4: lorentz.PtEtaPhiM(33.2, -0.4, 2.9, 1.777), Charge: -1, Type: tuple.LegTau},
		},
		Jets: []tuple.Jet{
			{P4: lorentz.PtEtaPhiM(61, 0.5, 1, 10), DeepCSV: 0.9, PassPUID: true, JESUnc: 0.03},
		},
		MET:               tuple.MET{P4: lorentz.PtEtaPhiM(30, 0, -0.5, 0), Cov: [3]float32{100, 10, 120}},
		HiggsPairs:        []uint32{pair},
		KinFitHiggsIndex:  []uint32{pair},
		KinFitJetPairID:   []uint32{tuple.UndefinedPairIndex},
		KinFitUncSource:   []int32{2},
		KinFitUncScale:    []int32{-1},
		KinFitM:           []float32{251.5},
		KinFitChi2:        []float32{0.25},
		KinFitConvergence: []int32{3},
		SVfitHiggsIndex:   []uint32{pair},
		SVfitUncSource:    []int32{0},
		SVfitUncScale:     []int32{0},
		SVfitIsValid:      []bool{true},
		SVfitP4:           []lorentz.Vector{lorentz.PtEtaPhiM(70, 0.1, 0.2, 125)},
		SVfitP4Error:      []lorentz.Vector{lorentz.PtEtaPhiM(5, 0, 0, 10)},
		SVfitMt:           []float32{90},
		SVfitMtError:      []float32{4},
	}
}

func TestRecordCodecs(t *testing.T) {
	codecs := map[string]Codec[tuple.Event]{
		"json":    JSON[tuple.Event]{},
		"msgpack": Msgpack[tuple.Event]{},
		"cbor":    MustCBOR[tuple.Event](true),
	}
	want := sampleRecord()
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(want)
			require.NoError(t, err)

			got, err := tuple.Decode(c, b)
			require.NoError(t, err)
			require.Equal(t, want, *got)
		})
	}
}

func TestDecodeRejectsMisalignedRecord(t *testing.T) {
	rec := sampleRecord()
	rec.SVfitMt = nil
	c := Msgpack[tuple.Event]{}
	b, err := c.Encode(rec)
	require.NoError(t, err)

	_, err = tuple.Decode(c, b)
	require.ErrorContains(t, err, "SVfit_mt")
}

func TestCBORDeterministic(t *testing.T) {
	c := MustCBOR[tuple.Event](true)
	a, err := c.Encode(sampleRecord())
	require.NoError(t, err)
	b, err := c.Encode(sampleRecord())
	require.NoError(t, err)
	require.Equal(t, a, b)

	// integer keys keep records smaller than json
	j, err := JSON[tuple.Event]{}.Encode(sampleRecord())
	require.NoError(t, err)
	require.Less(t, len(a), len(j))
}

func TestLimit(t *testing.T) {
	c := Limit[tuple.Event]{Inner: Msgpack[tuple.Event]{}, MaxDecode: 16}
	b, err := c.Encode(sampleRecord())
	require.NoError(t, err)

	_, err = c.Decode(b)
	require.ErrorContains(t, err, "payload too large")

	c.MaxDecode = 0
	_, err = c.Decode(b)
	require.NoError(t, err)
}

func TestKinFitWire(t *testing.T) {
	want := evcache.KinFitResult{Mass: 312.25, Chi2: 4.5, Probability: 0.125, Convergence: -2}
	b, err := KinFitWire{}.Encode(want)
	require.NoError(t, err)
	got, err := KinFitWire{}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, want, got)

	b, err = KinFitWire{}.Encode(evcache.KinFitResult{})
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestSVfitWire(t *testing.T) {
	want := evcache.SVfitResult{
		HasValidMomentum:    true,
		Momentum:            lorentz.PtEtaPhiM(70, -0.1, 3.1, 125.5),
		MomentumError:       lorentz.PtEtaPhiM(5, 0, 0, 9.5),
		TransverseMass:      90,
		TransverseMassError: 4,
	}
	b, err := SVfitWire{}.Encode(want)
	require.NoError(t, err)
	got, err := SVfitWire{}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFitWireSkipsUnknownFields(t *testing.T) {
	b, err := KinFitWire{}.Encode(evcache.KinFitResult{Mass: 10, Convergence: 1})
	require.NoError(t, err)
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("later"))

	got, err := KinFitWire{}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, evcache.KinFitResult{Mass: 10, Convergence: 1}, got)
}

func TestFitWireTruncated(t *testing.T) {
	b, err := SVfitWire{}.Encode(evcache.SVfitResult{TransverseMass: 90})
	require.NoError(t, err)

	_, err = SVfitWire{}.Decode(b[:len(b)-3])
	require.Error(t, err)
}
