// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package instrument provides stage instrumentation hooks for the pipeline.
// Components receive an Instrumenter and wrap each stage in Start and End,
// reporting failures through Error. Implementations cover structured
// logging, Prometheus metrics and OpenTelemetry tracing, and Multi combines
// several of them.
package instrument

import (
	"context"
	"time"
)

// Stage names one instrumented unit of work.
type Stage string

const (
	StageGather     Stage = "gather"
	StageAggregate  Stage = "aggregate"
	StageStructure  Stage = "structure"
	StageIllustrate Stage = "illustrate"
	StageSynthesize Stage = "synthesize"
	StageRetrieve   Stage = "retrieve"
	StageTool       Stage = "tool"
)

// Instrumenter receives lifecycle hooks for each stage. Error and End must be
// called with the context returned by Start. Implementations must be safe
// for concurrent use.
type Instrumenter interface {
	Start(ctx context.Context, stage Stage) context.Context
	Error(ctx context.Context, stage Stage, err error)
	End(ctx context.Context, stage Stage)
}

// Nop discards every hook.
type Nop struct{}

func (Nop) Start(ctx context.Context, _ Stage) context.Context { return ctx }
func (Nop) Error(context.Context, Stage, error)                {}
func (Nop) End(context.Context, Stage)                         {}

// OrNop returns inst, or Nop when inst is nil.
func OrNop(inst Instrumenter) Instrumenter {
	if inst == nil {
		return Nop{}
	}
	return inst
}

type multi []Instrumenter

// Multi fans hooks out to every non-nil instrumenter in order.
func Multi(insts ...Instrumenter) Instrumenter {
	var m multi
	for _, i := range insts {
		if i != nil {
			m = append(m, i)
		}
	}
	return m
}

func (m multi) Start(ctx context.Context, stage Stage) context.Context {
	for _, i := range m {
		ctx = i.Start(ctx, stage)
	}
	return ctx
}

func (m multi) Error(ctx context.Context, stage Stage, err error) {
	for _, i := range m {
		i.Error(ctx, stage, err)
	}
}

func (m multi) End(ctx context.Context, stage Stage) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].End(ctx, stage)
	}
}

type startKey struct{ stage Stage }

// withStart records the current time for stage in ctx, unless an outer
// instrumenter already did.
func withStart(ctx context.Context, stage Stage) context.Context {
	if _, ok := ctx.Value(startKey{stage}).(time.Time); ok {
		return ctx
	}
	return context.WithValue(ctx, startKey{stage}, time.Now())
}

// elapsed reports the time since withStart ran for stage.
func elapsed(ctx context.Context, stage Stage) time.Duration {
	start, ok := ctx.Value(startKey{stage}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
