//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package rbslog is the narrow logging collaborator the engine calls
// through. The resolution engine itself has no opinion on log formatting
// or destinations; this package is the thin seam between the engine and
// whatever structured logger the embedding program uses.
package rbslog

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the only logging surface the engine depends on. Warnings raised
// by the environment scanner and file section resolver are reported
// through Warnf; nothing the engine does is fatal-but-logged, so there is
// no Errorf.
type Logger interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// zapLogger adapts a *zap.SugaredLogger to [Logger], grounded on how
// intel-cri-resource-manager wires go.uber.org/zap as its logging backend.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZap builds a [Logger] backed by zap's production configuration.
func NewZap() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

// NewZapFrom adapts an already-constructed zap logger.
func NewZapFrom(z *zap.Logger) Logger {
	return &zapLogger{sugar: z.Sugar()}
}

func (l *zapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }

// Recording is a [Logger] used by tests: it appends every formatted line
// to Lines instead of writing anywhere, so assertions can check exact
// warning text (specify the warning text precisely).
type Recording struct {
	Lines []string
}

var _ Logger = &Recording{}

func (r *Recording) Warnf(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func (r *Recording) Debugf(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

// Nop discards everything; useful as a zero-configuration default.
type Nop struct{}

var _ Logger = Nop{}

func (Nop) Warnf(string, ...any)  {}
func (Nop) Debugf(string, ...any) {}
