package zap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/evcache"
)

func TestFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Warn("archive load failed", evcache.Fields{
		"quantity": evcache.QuantitySVfit,
		"event":    evcache.EventID{Run: 1, Lumi: 2, Event: 3},
		"err":      errors.New("timeout"),
	})
	l.Debug("computed", nil)

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, zapcore.WarnLevel, entry.Level)
	require.Equal(t, "archive load failed", entry.Message)

	ctx := entry.ContextMap()
	require.Equal(t, map[string]any{"run": uint32(1), "lumi": uint32(2), "evt": uint64(3)}, ctx["event"])
	require.Equal(t, "timeout", ctx["err"])
	require.Equal(t, evcache.QuantitySVfit, ctx["quantity"])

	require.Empty(t, logs.All()[1].Context)
}

func TestFieldOrderIsStable(t *testing.T) {
	fs := zf(evcache.Fields{"b": 1, "a": 2, "c": 3})
	require.Len(t, fs, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{fs[0].Key, fs[1].Key, fs[2].Key})
}
