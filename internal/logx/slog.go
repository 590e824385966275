package logx

import (
	"log/slog"
	"time"
)

// SlogAdapter backs Logger with a *slog.Logger.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter wraps l. A nil l uses slog.Default().
func NewSlogAdapter(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{l: l}
}

func (s *SlogAdapter) Debug(msg string, fields ...Field) { s.l.Debug(msg, toAttrs(fields)...) }
func (s *SlogAdapter) Info(msg string, fields ...Field)  { s.l.Info(msg, toAttrs(fields)...) }
func (s *SlogAdapter) Warn(msg string, fields ...Field)  { s.l.Warn(msg, toAttrs(fields)...) }
func (s *SlogAdapter) Error(msg string, fields ...Field) { s.l.Error(msg, toAttrs(fields)...) }

func (s *SlogAdapter) With(fields ...Field) Logger {
	return &SlogAdapter{l: s.l.With(toAttrs(fields)...)}
}

// Sync is a no-op; slog handlers write synchronously.
func (s *SlogAdapter) Sync() error { return nil }

func toAttrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, slog.String(f.Key, v))
		case int:
			out = append(out, slog.Int(f.Key, v))
		case int64:
			out = append(out, slog.Int64(f.Key, v))
		case bool:
			out = append(out, slog.Bool(f.Key, v))
		case time.Time:
			out = append(out, slog.Time(f.Key, v))
		case time.Duration:
			out = append(out, slog.Duration(f.Key, v))
		case error:
			out = append(out, slog.String(f.Key, v.Error()))
		default:
			out = append(out, slog.Any(f.Key, v))
		}
	}
	return out
}
