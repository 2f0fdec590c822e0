// Package logrus adapts a *logrus.Entry to evcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/evcache"
)

var _ evcache.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f evcache.Fields) { l.E.WithFields(lf(f)).Debug(msg) }
func (l LogrusLogger) Info(msg string, f evcache.Fields)  { l.E.WithFields(lf(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f evcache.Fields)  { l.E.WithFields(lf(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f evcache.Fields) { l.E.WithFields(lf(f)).Error(msg) }

// lf flattens an event id into run/lumi/evt and moves "err" to
// logrus.ErrorKey.
func lf(f evcache.Fields) logrus.Fields {
	out := make(logrus.Fields, len(f)+2)
	for k, v := range f {
		switch vv := v.(type) {
		case evcache.EventID:
			out["run"], out["lumi"], out["evt"] = vv.Run, vv.Lumi, vv.Event
		case error:
			if k == "err" {
				k = logrus.ErrorKey
			}
			out[k] = vv
		default:
			out[k] = v
		}
	}
	return out
}
