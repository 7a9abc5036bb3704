// Package logger builds the zap loggers used across osptest.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the console and optional file output of the logger
type Config struct {
	Level       string
	Filename    string // rotated JSON log file, disabled when empty
	MaxBackups  int
	MaxSize     int // megabytes
	NoCaller    bool
	Development bool
}

// New builds a sugared logger writing console output to stderr and, if
// cfg.Filename is set, JSON lines to a rotated file.
func New(cfg Config) (*zap.SugaredLogger, error) {
	level := new(zapcore.Level)
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder(false), zapcore.Lock(os.Stderr), level)
	if cfg.Filename != "" {
		fileCore := zapcore.NewCore(encoder(true), zapcore.AddSync(rotating(cfg)), level)
		core = zapcore.NewTee(core, fileCore)
	}

	var opts []zap.Option
	opts = append(opts, zap.AddStacktrace(zap.DPanicLevel))
	if !cfg.NoCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...).Sugar(), nil
}

// Nop returns a logger discarding everything
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func encoder(jsonFormat bool) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	if jsonFormat {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func rotating(cfg Config) *lumberjack.Logger {
	// keep 10 backups if not set to avoid filling the disk
	backups := cfg.MaxBackups
	if backups == 0 {
		backups = 10
	}
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxBackups: backups,
		MaxSize:    cfg.MaxSize,
	}
}
