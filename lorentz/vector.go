// Package lorentz provides the 4-momentum value type shared by records,
// cached fit results and composite candidates.
package lorentz

import "math"

// Vector is a 4-momentum stored in (pt, eta, phi, mass) coordinates.
// The zero value is a null vector.
type Vector struct {
	Pt  float64 `json:"pt" msgpack:"pt" cbor:"1,keyasint"`
	Eta float64 `json:"eta" msgpack:"eta" cbor:"2,keyasint"`
	Phi float64 `json:"phi" msgpack:"phi" cbor:"3,keyasint"`
	M   float64 `json:"m" msgpack:"m" cbor:"4,keyasint"`
}

func PtEtaPhiM(pt, eta, phi, m float64) Vector {
	return Vector{Pt: pt, Eta: eta, Phi: phi, M: m}
}

// FromPxPyPzE converts cartesian components. A negative invariant mass
// squared (rounding) is clamped to zero.
func FromPxPyPzE(px, py, pz, e float64) Vector {
	pt := math.Hypot(px, py)
	var eta, phi float64
	if pt > 0 {
		eta = math.Asinh(pz / pt)
		phi = math.Atan2(py, px)
	} else if pz != 0 {
		eta = math.Copysign(math.Inf(1), pz)
	}
	m2 := e*e - px*px - py*py - pz*pz
	m := 0.0
	if m2 > 0 {
		m = math.Sqrt(m2)
	}
	return Vector{Pt: pt, Eta: eta, Phi: phi, M: m}
}

func (v Vector) Px() float64 { return v.Pt * math.Cos(v.Phi) }
func (v Vector) Py() float64 { return v.Pt * math.Sin(v.Phi) }
func (v Vector) Pz() float64 { return v.Pt * math.Sinh(v.Eta) }

func (v Vector) E() float64 {
	pz := v.Pz()
	return math.Sqrt(v.Pt*v.Pt + pz*pz + v.M*v.M)
}

// Add returns the vector sum.
func (v Vector) Add(o Vector) Vector {
	return FromPxPyPzE(v.Px()+o.Px(), v.Py()+o.Py(), v.Pz()+o.Pz(), v.E()+o.E())
}

// Scale multiplies the momentum and mass by f, keeping the direction.
func (v Vector) Scale(f float64) Vector {
	return Vector{Pt: v.Pt * f, Eta: v.Eta, Phi: v.Phi, M: v.M * f}
}

// DeltaPhi returns the azimuthal separation in (-pi, pi].
func DeltaPhi(a, b Vector) float64 {
	d := a.Phi - b.Phi
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func DeltaR(a, b Vector) float64 {
	return math.Hypot(a.Eta-b.Eta, DeltaPhi(a, b))
}

// Sum adds all vectors; an empty list yields the null vector.
func Sum(vs ...Vector) Vector {
	var px, py, pz, e float64
	for _, v := range vs {
		px += v.Px()
		py += v.Py()
		pz += v.Pz()
		e += v.E()
	}
	return FromPxPyPzE(px, py, pz, e)
}
