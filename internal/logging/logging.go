// Package logging builds the zap logger used for diagnostics and warnings.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects verbosity and color for a console logger.
type Options struct {
	Verbose bool
	Quiet   bool
	Color   bool
}

// Level maps the CLI verbosity flags to a zap level. Quiet wins over verbose.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Quiet:
		return zapcore.ErrorLevel
	case o.Verbose:
		return zapcore.DebugLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger writing to w without timestamps or callers,
// which keeps CLI warnings to a single readable line.
func New(w io.Writer, opts Options) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.Color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), opts.Level())
	return zap.New(core)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
