package codec

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/unkn0wn-root/evcache"
	"github.com/unkn0wn-root/evcache/lorentz"
)

// KinFitWire and SVfitWire encode fit results in protobuf wire format
// without generated code. They are the archive's default codecs.
//
//	message KinFit { double mass = 1; double chi2 = 2; double prob = 3; sint64 convergence = 4; }
//	message Vector { double pt = 1; double eta = 2; double phi = 3; double m = 4; }
//	message SVfit  { bool valid = 1; Vector p4 = 2; Vector p4_err = 3; double mt = 4; double mt_err = 5; }
//
// Zero fields are omitted and unknown fields are skipped, so fields can be
// appended without breaking archived entries.
type (
	KinFitWire struct{}
	SVfitWire  struct{}
)

var (
	_ Codec[evcache.KinFitResult] = KinFitWire{}
	_ Codec[evcache.SVfitResult]  = SVfitWire{}
)

func (KinFitWire) Encode(r evcache.KinFitResult) ([]byte, error) {
	b := make([]byte, 0, 40)
	b = appendDouble(b, 1, r.Mass)
	b = appendDouble(b, 2, r.Chi2)
	b = appendDouble(b, 3, r.Probability)
	if r.Convergence != 0 {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(r.Convergence)))
	}
	return b, nil
}

func (KinFitWire) Decode(b []byte) (evcache.KinFitResult, error) {
	var r evcache.KinFitResult
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num >= 1 && num <= 3 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			f := math.Float64frombits(v)
			switch num {
			case 1:
				r.Mass = f
			case 2:
				r.Chi2 = f
			case 3:
				r.Probability = f
			}
			return n, nil
		case num == 4 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			r.Convergence = int(protowire.DecodeZigZag(v))
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return r, err
}

func (SVfitWire) Encode(r evcache.SVfitResult) ([]byte, error) {
	b := make([]byte, 0, 96)
	if r.HasValidMomentum {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	b = appendVector(b, 2, r.Momentum)
	b = appendVector(b, 3, r.MomentumError)
	b = appendDouble(b, 4, r.TransverseMass)
	b = appendDouble(b, 5, r.TransverseMassError)
	return b, nil
}

func (SVfitWire) Decode(b []byte) (evcache.SVfitResult, error) {
	var r evcache.SVfitResult
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			r.HasValidMomentum = protowire.DecodeBool(v)
			return n, nil
		case (num == 2 || num == 3) && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			v, err := decodeVector(raw)
			if err != nil {
				return 0, err
			}
			if num == 2 {
				r.Momentum = v
			} else {
				r.MomentumError = v
			}
			return n, nil
		case (num == 4 || num == 5) && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if num == 4 {
				r.TransverseMass = math.Float64frombits(v)
			} else {
				r.TransverseMassError = math.Float64frombits(v)
			}
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return r, err
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendVector(b []byte, num protowire.Number, v lorentz.Vector) []byte {
	if v == (lorentz.Vector{}) {
		return b
	}
	var m []byte
	m = appendDouble(m, 1, v.Pt)
	m = appendDouble(m, 2, v.Eta)
	m = appendDouble(m, 3, v.Phi)
	m = appendDouble(m, 4, v.M)
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func decodeVector(b []byte) (lorentz.Vector, error) {
	var v lorentz.Vector
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.Fixed64Type || num < 1 || num > 4 {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		u, n := protowire.ConsumeFixed64(b)
		f := math.Float64frombits(u)
		switch num {
		case 1:
			v.Pt = f
		case 2:
			v.Eta = f
		case 3:
			v.Phi = f
		case 4:
			v.M = f
		}
		return n, nil
	})
	return v, err
}

// walk calls field for every top-level field of b. field consumes the
// value and returns its length, or a negative protowire error code.
func walk(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("fit wire: %w", protowire.ParseError(n))
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("fit wire: field %d: %w", num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}
