package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/evcache"
)

func TestEventIDGroup(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))}

	l.Info("computed", evcache.Fields{
		"event":    evcache.EventID{Run: 1, Lumi: 2, Event: 3},
		"quantity": evcache.QuantityMT2,
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "computed", got["msg"])
	require.Equal(t, "mt2", got["quantity"])
	require.Equal(t, map[string]any{"run": 1.0, "lumi": 2.0, "evt": 3.0}, got["event"])
}

func TestLevelFiltered(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelWarn}))}
	l.Debug("store hit", evcache.Fields{"quantity": evcache.QuantityKinFit})
	require.Zero(t, buf.Len())
	l.Warn("archive load failed", nil)
	require.NotZero(t, buf.Len())
}
