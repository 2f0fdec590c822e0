package tuple

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks that every cache array group is index-aligned and that
// scale codes are within {-1, 0, 1}. Store population assumes a valid
// record and does not call this.
func (e *Event) Validate() error {
	nk := e.NKinFit()
	ns := e.NSVfit()
	scale := validation.Each(validation.Min(int32(-1)), validation.Max(int32(1)))
	source := validation.Each(validation.Min(int32(0)))

	return validation.ValidateStruct(e,
		validation.Field(&e.KinFitJetPairID, aligned(nk)...),
		validation.Field(&e.KinFitUncSource, append(aligned(nk), source)...),
		validation.Field(&e.KinFitUncScale, append(aligned(nk), scale)...),
		validation.Field(&e.KinFitM, aligned(nk)...),
		validation.Field(&e.KinFitChi2, aligned(nk)...),
		validation.Field(&e.KinFitConvergence, aligned(nk)...),

		validation.Field(&e.SVfitUncSource, append(aligned(ns), source)...),
		validation.Field(&e.SVfitUncScale, append(aligned(ns), scale)...),
		validation.Field(&e.SVfitIsValid, aligned(ns)...),
		validation.Field(&e.SVfitP4, aligned(ns)...),
		validation.Field(&e.SVfitP4Error, aligned(ns)...),
		validation.Field(&e.SVfitMt, aligned(ns)...),
		validation.Field(&e.SVfitMtError, aligned(ns)...),
	)
}

// Length skips empty values, so a missing array needs Required as well.
func aligned(n int) []validation.Rule {
	if n == 0 {
		return []validation.Rule{validation.Empty}
	}
	return []validation.Rule{validation.Required, validation.Length(n, n)}
}

// Decoder is satisfied by any codec.Codec[Event].
type Decoder interface {
	Decode([]byte) (Event, error)
}

// Decode decodes and validates one persisted record.
func Decode(dec Decoder, b []byte) (*Event, error) {
	ev, err := dec.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("tuple: decode: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("tuple: record %d:%d:%d: %w", ev.ID.Run, ev.ID.Lumi, ev.ID.Event, err)
	}
	return &ev, nil
}
