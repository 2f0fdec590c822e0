// Package zap adapts a *zap.Logger to evcache.Logger.
package zap

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/evcache"
)

var _ evcache.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New skips one caller frame so log lines point at the evcache call site.
func New(l *zap.Logger) ZapLogger {
	return ZapLogger{L: l.WithOptions(zap.AddCallerSkip(1))}
}

func (z ZapLogger) Debug(msg string, f evcache.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f evcache.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f evcache.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f evcache.Fields) { z.L.Error(msg, zf(f)...) }

// zf converts fields in key order. Event ids become nested objects and
// errors use zap's error encoding.
func zf(f evcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		switch v := f[k].(type) {
		case evcache.EventID:
			out = append(out, zap.Object(k, eventID(v)))
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

type eventID evcache.EventID

func (id eventID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("run", id.Run)
	enc.AddUint32("lumi", id.Lumi)
	enc.AddUint64("evt", id.Event)
	return nil
}
