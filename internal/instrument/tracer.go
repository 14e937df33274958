// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/pdiddy/deepdive"

// Tracer opens one OpenTelemetry span per stage.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer using tp, or the global provider when tp is nil.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(tracerName)}
}

func (t *Tracer) Start(ctx context.Context, stage Stage) context.Context {
	ctx, _ = t.tracer.Start(ctx, string(stage),
		trace.WithAttributes(attribute.String("deepdive.stage", string(stage))))
	return ctx
}

func (t *Tracer) Error(ctx context.Context, _ Stage, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (t *Tracer) End(ctx context.Context, _ Stage) {
	trace.SpanFromContext(ctx).End()
}
