// Package logger builds the structured loggers threaded through every
// Ignite subsystem. It exists so each subsystem's Config can carry a
// *zap.SugaredLogger without every caller needing to know how one is
// constructed or configured.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a development-mode, ISO8601-timestamped sugared logger named
// after the given service/subsystem. Construction failures fall back to
// zap's no-op logger rather than panicking - a logger should never be the
// reason a database fails to open.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}

	return log.Named(service).Sugar()
}

// Noop returns a logger that discards everything, for tests and other
// contexts that don't want log output on the critical path.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
