package evcache

import (
	"slices"

	"github.com/unkn0wn-root/evcache/tuple"
)

// Store holds every precomputed result attached to one event, in two
// independent tables. It is filled by Populate before any query and is
// read-only afterwards, so concurrent lookups need no locking.
type Store struct {
	kinFit map[KinFitKey]KinFitResult
	svFit  map[SVfitKey]SVfitResult
}

func NewStore() *Store {
	return &Store{
		kinFit: make(map[KinFitKey]KinFitResult),
		svFit:  make(map[SVfitKey]SVfitResult),
	}
}

// NewStoreFrom returns a store populated from rec.
func NewStoreFrom(rec *tuple.Event) *Store {
	s := NewStore()
	s.Populate(rec)
	return s
}

// Populate inserts every stored result of rec. The cache arrays of rec must
// be index-aligned (see tuple.Event.Validate). A key seen twice keeps the
// later entry. Populate must not run concurrently with lookups.
func (s *Store) Populate(rec *tuple.Event) {
	for n := range rec.KinFitHiggsIndex {
		k := KinFitKey{
			HTT:    tuple.IndexToPair(rec.KinFitHiggsIndex[n]),
			HBB:    tuple.IndexToPair(rec.KinFitJetPairID[n]),
			Source: UncertaintySource(rec.KinFitUncSource[n]),
			Scale:  UncertaintyScale(rec.KinFitUncScale[n]),
		}
		s.kinFit[k] = KinFitResult{
			Mass:        float64(rec.KinFitM[n]),
			Chi2:        float64(rec.KinFitChi2[n]),
			Convergence: int(rec.KinFitConvergence[n]),
		}
	}

	for n := range rec.SVfitHiggsIndex {
		k := SVfitKey{
			HTT:    tuple.IndexToPair(rec.SVfitHiggsIndex[n]),
			Source: UncertaintySource(rec.SVfitUncSource[n]),
			Scale:  UncertaintyScale(rec.SVfitUncScale[n]),
		}
		s.svFit[k] = SVfitResult{
			HasValidMomentum:    rec.SVfitIsValid[n],
			Momentum:            rec.SVfitP4[n],
			MomentumError:       rec.SVfitP4Error[n],
			TransverseMass:      float64(rec.SVfitMt[n]),
			TransverseMassError: float64(rec.SVfitMtError[n]),
		}
	}
}

// TryGetKinFit copies the stored kin-fit result for the key into out and
// returns true. On a miss out is left untouched.
func (s *Store) TryGetKinFit(out *KinFitResult, htt, hbb LegPair, source UncertaintySource, scale UncertaintyScale) bool {
	r, ok := s.LookupKinFit(KinFitKey{HTT: htt, HBB: hbb, Source: source, Scale: scale})
	if ok {
		*out = r
	}
	return ok
}

// TryGetSVfit copies the stored SVfit result for the key into out and
// returns true. On a miss out is left untouched.
func (s *Store) TryGetSVfit(out *SVfitResult, htt LegPair, source UncertaintySource, scale UncertaintyScale) bool {
	r, ok := s.LookupSVfit(SVfitKey{HTT: htt, Source: source, Scale: scale})
	if ok {
		*out = r
	}
	return ok
}

func (s *Store) LookupKinFit(k KinFitKey) (KinFitResult, bool) {
	r, ok := s.kinFit[k]
	return r, ok
}

func (s *Store) LookupSVfit(k SVfitKey) (SVfitResult, bool) {
	r, ok := s.svFit[k]
	return r, ok
}

// Len returns the number of entries per table.
func (s *Store) Len() (kinFit, svFit int) { return len(s.kinFit), len(s.svFit) }

// KinFitKeys returns the stored kin-fit keys in ascending order.
func (s *Store) KinFitKeys() []KinFitKey {
	keys := make([]KinFitKey, 0, len(s.kinFit))
	for k := range s.kinFit {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, KinFitKey.Compare)
	return keys
}

// SVfitKeys returns the stored SVfit keys in ascending order.
func (s *Store) SVfitKeys() []SVfitKey {
	keys := make([]SVfitKey, 0, len(s.svFit))
	for k := range s.svFit {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, SVfitKey.Compare)
	return keys
}

// SVfitVariations lists the variations stored for the tau-tau pair htt.
func (s *Store) SVfitVariations(htt LegPair) []Variation {
	var out []Variation
	for _, k := range s.SVfitKeys() {
		if k.HTT == htt {
			out = append(out, Variation{Source: k.Source, Scale: k.Scale})
		}
	}
	return out
}
