// Package oblog exposes a simple zap logger, with log levels and an
// optional console friendly output for interactive flow runs.
package oblog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug
	LogLevelDebug = "debug"

	// LogLevelNone sets logger to no logging
	LogLevelNone = "none"
)

// GetLogger returns a production zap logger with the specified level
func GetLogger(logLevel string) (*zap.Logger, error) {
	return buildLogger(logLevel, false)
}

// GetConsoleLogger returns a zap logger with a plain console encoding,
// suited to interactive flow runs
func GetConsoleLogger(logLevel string) (*zap.Logger, error) {
	return buildLogger(logLevel, true)
}

// MustGetLogger returns a zap logger with the specified level or panics
func MustGetLogger(logLevel string) *zap.Logger {
	l, err := GetLogger(logLevel)
	if err != nil {
		panic(err)
	}
	return l
}

func buildLogger(logLevel string, console bool) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	if console {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.DisableStacktrace = true
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}
