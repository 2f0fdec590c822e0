// Package wire frames archived fit results. The frame carries the event
// generation the result was computed under and the result kind, so an
// entry is never decoded as the wrong fit.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

// Kind tags the payload type.
type Kind byte

const (
	KindKinFit Kind = 1
	KindSVfit  Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindKinFit:
		return "kinfit"
	case KindSVfit:
		return "svfit"
	default:
		return "unknown"
	}
}

var (
	ErrCorrupt = errors.New("evcache: corrupt archive entry")
	// ErrKind means the frame is intact but holds another result kind.
	ErrKind = errors.New("evcache: archive entry kind mismatch")

	magic4 = [...]byte{'E', 'V', 'C', 'R'}
)

const hdrLen = 4 + 1 + 1 + 8 + 4

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames payload:
//
//	magic(4) | ver(1) | kind(1) | gen(u64 be) | vlen(u32 be) | payload(vlen)
func Encode(kind Kind, gen uint64, payload []byte) []byte {
	b := make([]byte, 0, hdrLen+len(payload))
	b = append(b, magic4[:]...)
	b = append(b, version, byte(kind))
	b = binary.BigEndian.AppendUint64(b, gen)
	b = binary.BigEndian.AppendUint32(b, uint32(len(payload)))
	return append(b, payload...)
}

// Decode validates the frame and returns its generation and payload. The
// payload aliases b.
func Decode(b []byte, want Kind) (gen uint64, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	off := 6

	gen = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off {
		return 0, nil, ErrCorrupt
	}
	if Kind(b[5]) != want {
		return 0, nil, ErrKind
	}
	return gen, b[off:], nil
}
