// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate merges the outputs of one gather phase into a single
// Analysis. It normalizes heterogeneous retrieval results into an ordered
// SourceItem list and runs the textanalysis heuristics over the combined
// text. Analyze never fails: any fault inside it yields a minimal fallback
// Analysis.
package aggregate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/internal/textanalysis"
	"github.com/pdiddy/deepdive/pkg/types"
)

// Aggregator produces an Analysis from a RawBundle.
type Aggregator struct {
	log  *zap.Logger
	inst instrument.Instrumenter
}

// New returns an Aggregator. Nil arguments select no-op implementations.
func New(log *zap.Logger, inst instrument.Instrumenter) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{log: log, inst: instrument.OrNop(inst)}
}

// Analyze builds the Analysis for topic from bundle. It recovers from panics
// and returns Fallback(topic) in their place.
func (a *Aggregator) Analyze(ctx context.Context, bundle types.RawBundle, topic string) (analysis types.Analysis) {
	ctx = a.inst.Start(ctx, instrument.StageAggregate)
	defer a.inst.End(ctx, instrument.StageAggregate)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("analysis panicked: %v", r)
			a.inst.Error(ctx, instrument.StageAggregate, err)
			a.log.Error("research analysis failed, using fallback",
				zap.String("topic", topic), zap.Error(err))
			analysis = Fallback(topic)
		}
	}()

	return analyzeBundle(bundle, topic)
}

// analyzeBundle is the analysis entry point. Package-level var for test substitution.
var analyzeBundle = analyze

func analyze(bundle types.RawBundle, topic string) types.Analysis {
	text := CollectText(bundle)
	keyPoints := nonNil(textanalysis.KeyPoints(text, topic))

	return types.Analysis{
		Topic:          topic,
		Summary:        Summarize(text, topic, keyPoints),
		KeyPoints:      keyPoints,
		Themes:         nonNil(textanalysis.Themes(text)),
		Complexity:     textanalysis.Complexity(text),
		Category:       textanalysis.Categorize(text),
		SourceQuality:  AssessQuality(bundle),
		Gaps:           nonNil(Gaps(keyPoints)),
		TotalSources:   bundle.SourceCount(),
		TotalWordCount: len(strings.Fields(text)),
	}
}

// Fallback is the minimal Analysis used when analysis cannot complete.
func Fallback(topic string) types.Analysis {
	return types.Analysis{
		Topic:      topic,
		Summary:    fmt.Sprintf("Research analysis for %s could not be completed.", topic),
		KeyPoints:  []string{},
		Themes:     []string{strings.ToLower(topic)},
		Complexity: types.ComplexityMedium,
		Category:   types.CategoryGeneral,
		Gaps:       []string{"More research needed"},
	}
}

// CollectText joins every text field of bundle with single spaces: article
// body then snippet for primary web results, transcript then description
// for videos, and body then snippet for each related result set in order.
func CollectText(b types.RawBundle) string {
	var parts []string
	for _, a := range b.Web {
		parts = append(parts, a.FullText, a.Excerpt)
	}
	for _, v := range b.Videos {
		parts = append(parts, v.Transcript, v.Description)
	}
	for _, set := range b.Related {
		for _, a := range set {
			parts = append(parts, a.FullText, a.Excerpt)
		}
	}
	return strings.Join(parts, " ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
