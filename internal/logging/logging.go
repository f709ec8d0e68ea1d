// Package logging builds the zap logger shared by every component.
package logging

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"showreel/internal/config"
)

// New builds a production logger for cfg. The terminal UI owns the screen,
// so toFile sends everything to cfg.File instead of stderr. The returned
// func flushes buffered entries.
func New(cfg config.LoggingConfig, toFile bool) (*zap.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil
	if toFile {
		if cfg.File == "" {
			return zap.NewNop(), func() {}, nil
		}
		path := filepath.Clean(cfg.File)
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ParseLevel accepts the zap level names; empty means info
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
