// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package instrument

import (
	"context"

	"go.uber.org/zap"
)

// Logger writes a debug line when a stage starts and ends, and a warning
// when it reports an error.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns a Logger writing to log. A nil log discards output.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

func (l *Logger) Start(ctx context.Context, stage Stage) context.Context {
	l.log.Debug("stage started", zap.String("stage", string(stage)))
	return withStart(ctx, stage)
}

func (l *Logger) Error(_ context.Context, stage Stage, err error) {
	l.log.Warn("stage error", zap.String("stage", string(stage)), zap.Error(err))
}

func (l *Logger) End(ctx context.Context, stage Stage) {
	l.log.Debug("stage finished",
		zap.String("stage", string(stage)),
		zap.Duration("elapsed", elapsed(ctx, stage)),
	)
}
