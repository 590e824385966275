package app

import (
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"

	"ecodeli/internal/logx"
)

// NewLogger builds the JSON logger selected by LOG_BACKEND ("slog" or "zap").
func NewLogger(backend string) logx.Logger {
	if strings.EqualFold(strings.TrimSpace(backend), "zap") {
		z, err := zap.NewProduction()
		if err == nil {
			return logx.NewZapAdapter(z)
		}
	}
	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logx.NewSlogAdapter(base)
}
