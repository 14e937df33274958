// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"

	"github.com/pdiddy/deepdive/internal/archive"
	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/internal/mcp"
	"github.com/pdiddy/deepdive/internal/pipeline"
)

// app holds the collaborators a subcommand needs, built from appConfig.
type app struct {
	registry *prometheus.Registry
	inst     instrument.Instrumenter
	backends *pipeline.Backends
	research *pipeline.Orchestrator
}

func newApp(ctx context.Context) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	inst := instrument.Multi(
		instrument.NewLogger(logger.Named("stage")),
		instrument.NewMetrics(reg),
		instrument.NewTracer(otel.GetTracerProvider()),
	)

	b, err := pipeline.NewBackends(ctx, appConfig, logger, inst)
	if err != nil {
		return nil, err
	}
	return &app{
		registry: reg,
		inst:     inst,
		backends: b,
		research: pipeline.FromConfig(appConfig, b, logger.Named("pipeline"), inst),
	}, nil
}

func (a *app) services() mcp.Services {
	return mcp.Services{
		Research: a.research,
		Web:      a.backends.Web,
		Video:    a.backends.Video,
		Cartoons: a.backends.Tool,
		Defaults: appConfig.Research,
	}
}

func openArchive() (*archive.Store, error) {
	return archive.Open(appConfig.Archive)
}
