// Package logging is the console's structured logger. Components receive a
// Logger by injection; zap stays behind this package.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// Fatal exits the process after writing the entry.
	Fatal(msg string, fields ...Field)
	With(fields ...Field) Logger
	Named(name string) Logger
	Sync() error
}

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// FileConfig adds a size-rotated JSON log file. An empty Path disables it.
type FileConfig struct {
	Path       string `mapstructure:"path" yaml:"path" json:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress" json:"compress"`
}

// LogConfig selects level, encoding and destinations. Outputs default to
// stderr so stdout stays free for command results.
type LogConfig struct {
	Level            string     `mapstructure:"level" yaml:"level" json:"level"`
	Format           string     `mapstructure:"format" yaml:"format" json:"format"`
	OutputPaths      []string   `mapstructure:"output_paths" yaml:"output_paths" json:"output_paths"`
	ErrorOutputPaths []string   `mapstructure:"error_output_paths" yaml:"error_output_paths" json:"error_output_paths"`
	File             FileConfig `mapstructure:"file" yaml:"file" json:"file"`
}

// ParseLevel is case-insensitive and falls back to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn, "warning":
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

func encoder(format string) zapcore.Encoder {
	if format == "console" {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "ts"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(ec)
}

// NewLogger opens the configured sinks and tees in the rotated file when
// one is set.
func NewLogger(cfg LogConfig) (Logger, error) {
	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	errOutputs := cfg.ErrorOutputPaths
	if len(errOutputs) == 0 {
		errOutputs = []string{"stderr"}
	}

	sink, closeSink, err := zap.Open(outputs...)
	if err != nil {
		return nil, fmt.Errorf("logging: open %v: %w", outputs, err)
	}
	errSink, _, err := zap.Open(errOutputs...)
	if err != nil {
		closeSink()
		return nil, fmt.Errorf("logging: open %v: %w", errOutputs, err)
	}

	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	core := zapcore.NewCore(encoder(cfg.Format), sink, level)
	if cfg.File.Path != "" {
		core = zapcore.NewTee(core, zapcore.NewCore(encoder("json"), zapcore.AddSync(rotator(cfg.File)), level))
	}

	opts := []zap.Option{zap.ErrorOutput(errSink), zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Format == "console" {
		opts = append(opts, zap.Development())
	}
	return NewLoggerFromCore(core, opts...), nil
}

func rotator(fc FileConfig) *lumberjack.Logger {
	size := fc.MaxSizeMB
	if size <= 0 {
		size = 10
	}
	return &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    size,
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays,
		Compress:   fc.Compress,
	}
}

// NewLoggerFromCore wraps core, for example a zaptest observer.
func NewLoggerFromCore(core zapcore.Core, opts ...zap.Option) Logger {
	if len(opts) == 0 {
		opts = []zap.Option{zap.AddCallerSkip(1)}
	}
	return zapLogger{zap.New(core, opts...)}
}

type zapLogger struct{ z *zap.Logger }

func (l zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, zapFields(fields)...) }
func (l zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, zapFields(fields)...) }
func (l zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, zapFields(fields)...) }
func (l zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, zapFields(fields)...) }
func (l zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, zapFields(fields)...) }
func (l zapLogger) With(fields ...Field) Logger       { return zapLogger{l.z.With(zapFields(fields)...)} }
func (l zapLogger) Named(name string) Logger          { return zapLogger{l.z.Named(name)} }
func (l zapLogger) Sync() error                       { return l.z.Sync() }

// NewNopLogger discards everything.
func NewNopLogger() Logger { return zapLogger{zap.NewNop()} }

//Personal.AI order the ending
