// Package logging builds the zap logger used by the driver and the CLI.
//
// Without a log file the logger writes human-readable lines to stderr; with
// one it writes JSON through a rotating lumberjack sink.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string // debug, info, warn, error; пусто - логирование выключено
	File       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool

	// Console overrides the stderr sink of the console encoder.
	Console io.Writer
}

// DefaultConfig returns rotation limits for file logging with logging disabled.
func DefaultConfig() Config {
	return Config{
		MaxSizeMB:  50,
		MaxAgeDays: 30,
		MaxBackups: 5,
		Compress:   true,
	}
}

// New builds a logger from cfg. An empty Level yields zap.NewNop.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Level == "" {
		return zap.NewNop(), nil
	}
	level := new(zapcore.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	var core zapcore.Core
	if cfg.File != "" {
		core = zapcore.NewCore(jsonEncoder(), fileWriter(cfg), level)
	} else {
		out := cfg.Console
		if out == nil {
			out = os.Stderr
		}
		core = zapcore.NewCore(consoleEncoder(), zapcore.AddSync(out), level)
	}
	return zap.New(core, zap.AddCaller()), nil
}

func jsonEncoder() zapcore.Encoder {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.TimeKey = "time"
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encodeConfig.EncodeDuration = zapcore.MillisDurationEncoder
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(encodeConfig)
}

func consoleEncoder() zapcore.Encoder {
	encodeConfig := zap.NewDevelopmentEncoderConfig()
	encodeConfig.TimeKey = ""
	encodeConfig.CallerKey = ""
	encodeConfig.EncodeDuration = zapcore.StringDurationEncoder
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encodeConfig)
}

func fileWriter(cfg Config) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}
