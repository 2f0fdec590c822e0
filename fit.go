package evcache

import "github.com/unkn0wn-root/evcache/lorentz"

// KinFitResult is the output of the four-body kinematic fit.
// The zero value is "not computed" and fails HasValidMass.
type KinFitResult struct {
	Mass        float64 `json:"mass" msgpack:"mass" cbor:"1,keyasint"`
	Chi2        float64 `json:"chi2" msgpack:"chi2" cbor:"2,keyasint"`
	Probability float64 `json:"probability" msgpack:"probability" cbor:"3,keyasint"`
	Convergence int     `json:"convergence" msgpack:"convergence" cbor:"4,keyasint"`
}

func (r KinFitResult) HasValidMass() bool { return r.Convergence > 0 }

// SVfitResult is the output of the di-tau mass estimator.
// The zero value is "not computed" and has HasValidMomentum false.
type SVfitResult struct {
	HasValidMomentum    bool           `json:"valid" msgpack:"valid" cbor:"1,keyasint"`
	Momentum            lorentz.Vector `json:"p4" msgpack:"p4" cbor:"2,keyasint"`
	MomentumError       lorentz.Vector `json:"p4_error" msgpack:"p4_error" cbor:"3,keyasint"`
	TransverseMass      float64        `json:"mt" msgpack:"mt" cbor:"4,keyasint"`
	TransverseMassError float64        `json:"mt_error" msgpack:"mt_error" cbor:"5,keyasint"`
}
