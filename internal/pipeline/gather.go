// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/pkg/types"
)

// RelatedResults is the result cap of each related-query search.
const RelatedResults = 2

// relatedTemplates generate the related queries, in order. %s is the topic.
var relatedTemplates = []string{
	"%s explained simply",
	"%s examples",
	"%s problems and solutions",
	"future of %s",
	"%s vs alternatives",
}

var (
	errNoWebBackend   = errors.New("no web backend configured")
	errNoVideoBackend = errors.New("no video backend configured")
)

// RelatedQueries returns the first depth related queries for topic, bounded
// by the number of templates.
func RelatedQueries(topic string, depth int) []string {
	n := min(max(depth, 0), len(relatedTemplates))
	queries := make([]string, n)
	for i := range n {
		queries[i] = fmt.Sprintf(relatedTemplates[i], topic)
	}
	return queries
}

// gather launches the primary web search, the primary video search, and
// every related web search together and waits for all of them. Each call
// owns one slot of the bundle, so results keep launch order whatever order
// they finish in. A failed or panicking call leaves its slot empty and adds
// a SourceFailure; it never cancels its siblings.
func (o *Orchestrator) gather(ctx context.Context, req types.ResearchRequest) types.RawBundle {
	ctx = o.inst.Start(ctx, instrument.StageGather)
	defer o.inst.End(ctx, instrument.StageGather)

	related := RelatedQueries(req.Topic, req.Depth)
	bundle := types.RawBundle{
		Web:            []types.WebArticle{},
		Videos:         []types.Video{},
		RelatedQueries: related,
		Related:        make([][]types.WebArticle, len(related)),
	}
	failures := make([]*types.SourceFailure, 2+len(related))

	var g errgroup.Group
	g.Go(o.isolate(ctx, types.SourceWeb, req.Topic, &failures[0], func() error {
		if o.stages.Web == nil {
			return errNoWebBackend
		}
		articles, err := o.stages.Web.SearchAndExtract(ctx, req.Topic, types.WebCap(req.Depth))
		if err != nil {
			return err
		}
		bundle.Web = nonNil(articles)
		return nil
	}))
	g.Go(o.isolate(ctx, types.SourceVideo, req.Topic, &failures[1], func() error {
		if o.stages.Video == nil {
			return errNoVideoBackend
		}
		videos, err := o.stages.Video.SearchAndTranscribe(ctx, req.Topic, types.VideoCap(req.Depth))
		if err != nil {
			return err
		}
		if videos != nil {
			bundle.Videos = videos
		}
		return nil
	}))
	for i, q := range related {
		bundle.Related[i] = []types.WebArticle{}
		g.Go(o.isolate(ctx, types.SourceRelatedWeb, q, &failures[2+i], func() error {
			if o.stages.Web == nil {
				return errNoWebBackend
			}
			articles, err := o.stages.Web.SearchAndExtract(ctx, q, RelatedResults)
			if err != nil {
				return err
			}
			bundle.Related[i] = nonNil(articles)
			return nil
		}))
	}
	// Every isolated call returns nil, so Wait only joins.
	_ = g.Wait()

	for _, f := range failures {
		if f != nil {
			bundle.Failures = append(bundle.Failures, *f)
		}
	}
	o.log.Debug("gather complete",
		zap.Int("web", len(bundle.Web)),
		zap.Int("videos", len(bundle.Videos)),
		zap.Int("related_queries", len(related)),
		zap.Int("failed", len(bundle.Failures)))
	return bundle
}

// isolate wraps one retrieval call so that its error or panic is recorded
// in slot instead of escaping to the group.
func (o *Orchestrator) isolate(ctx context.Context, kind types.SourceKind, query string, slot **types.SourceFailure, call func() error) func() error {
	return func() error {
		if err := recovered(call); err != nil {
			*slot = &types.SourceFailure{Kind: kind, Query: query, Error: err.Error()}
			o.inst.Error(ctx, instrument.StageGather, err)
			o.log.Warn("source failed",
				zap.String("source", string(kind)), zap.String("query", query), zap.Error(err))
		}
		return nil
	}
}

func recovered(call func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("retrieval panicked: %v", r)
		}
	}()
	return call()
}

func nonNil(a []types.WebArticle) []types.WebArticle {
	if a == nil {
		return []types.WebArticle{}
	}
	return a
}
