// Package logging builds the structured logger shared by the inspector's
// commands.
package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConfig returns a console zap configuration with coloured levels, short
// callers and no stack traces. Logs go to stderr so that stdout carries only
// the inspection report, or the JSON-RPC stream in server mode.
func NewConfig(level zapcore.Level) zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// ParseLevel maps debug, info, warn and error (any case) to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "unknown log level %q", name)
	}
	return level, nil
}

// New builds a named sugared logger at the given level.
func New(name, level string) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger, err := NewConfig(lvl).Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger.Named(name).Sugar(), nil
}

// NewNop returns a logger that discards everything, for tests and library use.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
