// Package logger configures the structured logger shared across the
// tracked daemon: the store, the HTTP API, and the bootstrap sequence all
// log through a *zap.SugaredLogger built here.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levels maps the config-file log levels onto zap's level enum. zap has
// no "off" or "trace" level of its own: "off" is approximated with a
// level above Fatal so nothing is ever enabled, and "trace" is folded
// into Debug, zap's most verbose level.
var levels = map[string]zapcore.Level{
	"off":   zapcore.FatalLevel + 1,
	"error": zapcore.ErrorLevel,
	"warn":  zapcore.WarnLevel,
	"info":  zapcore.InfoLevel,
	"debug": zapcore.DebugLevel,
	"trace": zapcore.DebugLevel,
}

// New builds a production-style zap logger at the given level, tagged
// with the service name, and returns its sugared form for call sites
// that prefer printf-style logging over strongly-typed fields.
func New(service string, level string) (*zap.SugaredLogger, error) {
	zapLevel, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return base.With(zap.String("service", service)).Sugar(), nil
}
