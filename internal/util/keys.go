// Package util builds archive storage keys.
package util

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/evcache"
	"github.com/unkn0wn-root/evcache/tuple"
)

// EventPrefix is "<ns>:<run>:<lumi>:<event>", shared by every key of one event.
func EventPrefix(ns string, id evcache.EventID) string {
	b := make([]byte, 0, len(ns)+32)
	b = append(b, ns...)
	b = append(b, ':')
	b = strconv.AppendUint(b, uint64(id.Run), 10)
	b = append(b, ':')
	b = strconv.AppendUint(b, uint64(id.Lumi), 10)
	b = append(b, ':')
	b = strconv.AppendUint(b, id.Event, 10)
	return string(b)
}

// GenKey names the generation counter of an event.
func GenKey(ns string, id evcache.EventID) string {
	return "gen:" + EventPrefix(ns, id)
}

// KinFitKey is "kinfit:<prefix>:<digest>" with an xxhash digest of the
// composite key fields.
func KinFitKey(ns string, id evcache.EventID, k evcache.KinFitKey) string {
	return "kinfit:" + EventPrefix(ns, id) + ":" + digest(k.HTT, k.HBB, k.Source, k.Scale)
}

// SVfitKey is "svfit:<prefix>:<digest>".
func SVfitKey(ns string, id evcache.EventID, k evcache.SVfitKey) string {
	return "svfit:" + EventPrefix(ns, id) + ":" + digest(k.HTT, tuple.Undefined, k.Source, k.Scale)
}

func digest(htt, hbb evcache.LegPair, src evcache.UncertaintySource, scale evcache.UncertaintyScale) string {
	var b [16]byte
	binary.BigEndian.PutUint32(b[0:], tuple.PairToIndex(htt))
	binary.BigEndian.PutUint32(b[4:], tuple.PairToIndex(hbb))
	binary.BigEndian.PutUint32(b[8:], uint32(src))
	binary.BigEndian.PutUint32(b[12:], uint32(scale))
	return strconv.FormatUint(xxhash.Sum64(b[:]), 16)
}

