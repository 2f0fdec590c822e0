package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/evcache"
)

func TestFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	boom := errors.New("boom")
	l.Error("archive store failed", evcache.Fields{
		"event":    evcache.EventID{Run: 7, Lumi: 8, Event: 9},
		"quantity": evcache.QuantityKinFit,
		"err":      boom,
	})

	require.Len(t, hook.Entries, 1)
	e := hook.LastEntry()
	require.Equal(t, logrus.ErrorLevel, e.Level)
	require.Equal(t, "archive store failed", e.Message)
	require.Equal(t, uint32(7), e.Data["run"])
	require.Equal(t, uint32(8), e.Data["lumi"])
	require.Equal(t, uint64(9), e.Data["evt"])
	require.Equal(t, boom, e.Data[logrus.ErrorKey])
	require.NotContains(t, e.Data, "event")

	l.Debug("store hit", nil)
	require.Len(t, hook.Entries, 2)
	require.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}
