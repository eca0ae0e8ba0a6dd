package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cartel47-backend/internal/config"
)

func New(cfg config.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := cfg.Encoding
	if encoding != "json" {
		encoding = "console"
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return zc.Build()
}
