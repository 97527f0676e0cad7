// Package report renders diagnostics for people and programs: a zap logger
// sink, a colored console printer and a JSON document.
package report

import (
	"go.uber.org/zap"

	schemaconv "github.com/reoring/schemaconv"
)

// Logger adapts a zap logger into a Reporter. Errors are logged at Error
// level and advisory diagnostics at Warn level.
type Logger struct {
	L *zap.Logger
}

func (l Logger) Report(d schemaconv.Diagnostic) {
	if l.L == nil {
		return
	}
	fields := []zap.Field{
		zap.String("code", d.Code),
		zap.String("path", d.Path),
		zap.String("pointer", string(d.Pointer)),
	}
	if d.Rule != "" {
		fields = append(fields, zap.String("rule", d.Rule))
	}
	if d.From != "" {
		fields = append(fields, zap.String("from", string(d.From)))
	}
	if d.Severity == schemaconv.Error {
		l.L.Error(d.Message, fields...)
		return
	}
	l.L.Warn(d.Message, fields...)
}

// NewLogger builds the process logger: a development logger with Debug
// enabled when verbose, a production console logger otherwise. It never
// fails; a no-op logger is returned if construction does.
func NewLogger(verbose bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableStacktrace = true
		l, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}
