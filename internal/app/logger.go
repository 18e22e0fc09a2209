package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"service-dispatch/internal/config"
	"service-dispatch/internal/logx"
)

var logOutput io.Writer = os.Stdout

// NewLogger builds the service logger. LOG_BACKEND=zap selects zap, anything else slog JSON.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	if strings.EqualFold(cfg.LogFormat, "zap") {
		return newZapLogger(cfg.LogLevel)
	}
	base := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))
	return logx.NewSlogAdapter(base), nil
}

func newZapLogger(level string) (logx.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zl, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logx.NewZapAdapter(zl), nil
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
