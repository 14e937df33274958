// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package instrument

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- recording instrumenter ---

type recorder struct {
	name   string
	events *[]string
}

func (r recorder) Start(ctx context.Context, stage Stage) context.Context {
	*r.events = append(*r.events, r.name+":start:"+string(stage))
	return ctx
}

func (r recorder) Error(_ context.Context, stage Stage, _ error) {
	*r.events = append(*r.events, r.name+":error:"+string(stage))
}

func (r recorder) End(_ context.Context, stage Stage) {
	*r.events = append(*r.events, r.name+":end:"+string(stage))
}

func TestMultiOrdering(t *testing.T) {
	var events []string
	m := Multi(recorder{"a", &events}, nil, recorder{"b", &events})

	ctx := m.Start(context.Background(), StageAggregate)
	m.Error(ctx, StageAggregate, errors.New("boom"))
	m.End(ctx, StageAggregate)

	assert.Equal(t, []string{
		"a:start:aggregate", "b:start:aggregate",
		"a:error:aggregate", "b:error:aggregate",
		"b:end:aggregate", "a:end:aggregate",
	}, events)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))
	m := NewMetrics(prometheus.NewRegistry())
	assert.Same(t, m, OrNop(m))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ctx := m.Start(context.Background(), StageGather)
	m.Error(ctx, StageGather, errors.New("source down"))
	m.End(ctx, StageGather)
	ctx = m.Start(context.Background(), StageGather)
	m.End(ctx, StageGather)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.started.WithLabelValues("gather")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("gather")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestTracer(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := NewTracer(tp)

	ctx := tr.Start(context.Background(), StageSynthesize)
	tr.Error(ctx, StageSynthesize, errors.New("backend failed"))
	tr.End(ctx, StageSynthesize)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "synthesize", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "backend failed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	ctx := l.Start(context.Background(), StageIllustrate)
	l.Error(ctx, StageIllustrate, errors.New("image backend down"))
	l.End(ctx, StageIllustrate)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "stage started", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "illustrate", entries[1].ContextMap()["stage"])
	assert.Equal(t, "stage finished", entries[2].Message)
}

func TestElapsedWithoutStart(t *testing.T) {
	assert.Zero(t, elapsed(context.Background(), StageGather))
}
