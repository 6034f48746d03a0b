// Package log builds the zap-backed logr.Logger used for diagnostics.
// The smoke-test report itself is written by the output package, never here.
package log

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing JSON lines to the given paths ("stderr" when
// empty). Verbose enables logr V(1) messages.
func New(verbose bool, paths ...string) (logr.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	zc.OutputPaths = paths
	zc.ErrorOutputPaths = []string{"stderr"}

	z, err := zc.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(z), nil
}

// NewStderrLogger is New without an error return; it falls back to a
// discarding logger if zap cannot be configured.
func NewStderrLogger(verbose bool) logr.Logger {
	l, err := New(verbose)
	if err != nil {
		return logr.Discard()
	}
	return l
}
