package tuple

import "fmt"

// LegPair is an ordered pair of object indices. Undefined marks a missing pair.
type LegPair struct {
	First  int `json:"first" msgpack:"first" cbor:"1,keyasint"`
	Second int `json:"second" msgpack:"second" cbor:"2,keyasint"`
}

// UndefinedPairIndex is the encoded form of Undefined.
const UndefinedPairIndex uint32 = 0xFFFFFFFF

var Undefined = LegPair{First: -1, Second: -1}

func (p LegPair) IsDefined() bool { return p.First >= 0 && p.Second >= 0 }

// Contains reports whether idx is one of the pair's members.
func (p LegPair) Contains(idx int) bool { return p.First == idx || p.Second == idx }

func (p LegPair) String() string {
	if !p.IsDefined() {
		return "(undefined)"
	}
	return fmt.Sprintf("(%d,%d)", p.First, p.Second)
}

// PairToIndex encodes p as first<<16 | second.
func PairToIndex(p LegPair) uint32 {
	if !p.IsDefined() {
		return UndefinedPairIndex
	}
	return uint32(p.First)<<16 | uint32(p.Second)&0xFFFF
}

// IndexToPair is the inverse of PairToIndex.
func IndexToPair(idx uint32) LegPair {
	if idx == UndefinedPairIndex {
		return Undefined
	}
	return LegPair{First: int(idx >> 16), Second: int(idx & 0xFFFF)}
}
