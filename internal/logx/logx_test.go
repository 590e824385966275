package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFields_Constructors(t *testing.T) {
	now := time.Now()
	boom := errors.New("boom")

	require.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	require.Equal(t, Field{Key: "k", Value: 1}, Int("k", 1))
	require.Equal(t, Field{Key: "k", Value: int64(2)}, Int64("k", int64(2)))
	require.Equal(t, Field{Key: "k", Value: true}, Bool("k", true))
	require.Equal(t, Field{Key: "k", Value: now}, Time("k", now))
	require.Equal(t, Field{Key: "k", Value: time.Second}, Duration("k", time.Second))
	require.Equal(t, Field{Key: "err", Value: boom}, Err(boom))
}

func TestNop(t *testing.T) {
	l := Nop().With(String("x", "y"))
	l.Debug("d")
	l.Info("i", Int("n", 1))
	l.Warn("w")
	l.Error("e", Err(errors.New("boom")))
	require.NoError(t, l.Sync())
}

func TestSlogAdapter_WritesTypedJSON(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := NewSlogAdapter(base).With(String("service", "api"))

	l.Info("delivery cancelled",
		Int64("delivery_id", 42),
		Bool("by_owner", true),
		Duration("took", 1500*time.Millisecond),
		Err(errors.New("boom")),
	)
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "delivery cancelled", entry["msg"])
	require.Equal(t, "api", entry["service"])
	require.InDelta(t, 42, entry["delivery_id"], 0)
	require.Equal(t, true, entry["by_owner"])
	require.Equal(t, "boom", entry["err"])
}

func TestZapAdapter_WritesTypedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core)).With(String("service", "api"))

	l.Info("delivery validated",
		Int64("delivery_id", 7),
		Bool("notified", false),
		Duration("took", time.Millisecond),
		Err(errors.New("boom")),
	)
	l.Warn("warn")

	entries := logs.All()
	require.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	require.Equal(t, "api", ctx["service"])
	require.Equal(t, int64(7), ctx["delivery_id"])
	require.Equal(t, false, ctx["notified"])
	require.Equal(t, "boom", ctx["err"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestZapAdapter_NilFallsBackToNop(t *testing.T) {
	l := NewZapAdapter(nil)
	l.Error("ignored")
	require.NoError(t, l.Sync())
}
