// Package logger builds the process-wide zap logger from viper-backed
// settings.
package logger

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the logger and a cleanup function flushing buffered
// entries. LOG_LEVEL and LOG_TIME_FORMAT come from the environment or
// config file via viper, with sane defaults.
func New() (*zap.Logger, func(), error) {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_TIME_FORMAT", time.RFC3339Nano)

	level, err := zapcore.ParseLevel(viper.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(viper.GetString("LOG_TIME_FORMAT"))

	log, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = log.Sync()
	}
	return log, cleanup, nil
}
