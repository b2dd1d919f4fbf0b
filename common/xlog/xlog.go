// Package xlog builds the zap logger used by the contour tools.
package xlog

import (
	"fmt"
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json

	// File, when set, sends output to a rotated log file instead of stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		MaxSizeMB:  100,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

func (c Config) Validate() error {
	var err error
	if _, e := zapcore.ParseLevel(c.Level); e != nil {
		err = multierr.Append(err, fmt.Errorf("log level: %w", e))
	}
	if c.Format != "console" && c.Format != "json" {
		err = multierr.Append(err, fmt.Errorf("log format must be console or json, got %q", c.Format))
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		err = multierr.Append(err, fmt.Errorf("log rotation limits must be >= 0"))
	}
	return err
}

// New returns a logger for c.
func New(c Config) (*zap.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(c.Level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if c.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var ws zapcore.WriteSyncer
	if c.File != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		})
	} else {
		ws = zapcore.Lock(os.Stderr)
	}
	return zap.New(zapcore.NewCore(enc, ws, level), zap.AddCaller()), nil
}
