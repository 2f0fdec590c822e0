package util

import (
	"strings"
	"testing"

	"github.com/unkn0wn-root/evcache"
	"github.com/unkn0wn-root/evcache/tuple"
)

var testID = evcache.EventID{Run: 273158, Lumi: 12, Event: 9001}

func TestEventPrefix(t *testing.T) {
	if got, want := EventPrefix("ns", testID), "ns:273158:12:9001"; got != want {
		t.Fatalf("EventPrefix=%q want %q", got, want)
	}
	if got, want := GenKey("ns", testID), "gen:ns:273158:12:9001"; got != want {
		t.Fatalf("GenKey=%q want %q", got, want)
	}
}

func TestFitKeysAreStableAndDistinct(t *testing.T) {
	k := evcache.KinFitKey{
		HTT:    tuple.LegPair{First: 0, Second: 1},
		HBB:    tuple.LegPair{First: 2, Second: 3},
		Source: evcache.SourceTauES,
		Scale:  evcache.ScaleUp,
	}
	a := KinFitKey("ns", testID, k)
	if a != KinFitKey("ns", testID, k) {
		t.Fatal("key not deterministic")
	}
	if !strings.HasPrefix(a, "kinfit:ns:273158:12:9001:") {
		t.Fatalf("unexpected key layout %q", a)
	}

	k2 := k
	k2.Scale = evcache.ScaleDown
	if a == KinFitKey("ns", testID, k2) {
		t.Fatal("scale not part of the key")
	}
	k3 := k
	k3.HBB = tuple.Undefined
	if a == KinFitKey("ns", testID, k3) {
		t.Fatal("hbb pair not part of the key")
	}
	if a == KinFitKey("other", testID, k) {
		t.Fatal("namespace not part of the key")
	}

	sv := SVfitKey("ns", testID, evcache.SVfitKey{HTT: k.HTT, Source: k.Source, Scale: k.Scale})
	if !strings.HasPrefix(sv, "svfit:ns:273158:12:9001:") {
		t.Fatalf("unexpected key layout %q", sv)
	}
	if strings.TrimPrefix(sv, "svfit:") != strings.TrimPrefix(KinFitKey("ns", testID, k3), "kinfit:") {
		t.Fatal("svfit digest should match a kinfit digest with an undefined hbb pair")
	}
}
