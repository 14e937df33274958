// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"github.com/pdiddy/deepdive/pkg/types"
)

const videoExcerptLen = 200

// Normalize flattens bundle into SourceItems in launch order: primary web
// results, then videos, then each related result set in query order.
// Ordinals run from 0 to N-1.
func Normalize(b types.RawBundle) []types.SourceItem {
	items := make([]types.SourceItem, 0, b.SourceCount())
	add := func(kind types.SourceKind, title, url, excerpt string) {
		items = append(items, types.SourceItem{
			Kind:    kind,
			Title:   title,
			URL:     url,
			Excerpt: excerpt,
			Ordinal: len(items),
		})
	}

	for _, a := range b.Web {
		add(types.SourceWeb, a.Title, a.URL, a.Excerpt)
	}
	for _, v := range b.Videos {
		add(types.SourceVideo, v.Title, v.URL, videoExcerpt(v.Transcript))
	}
	for _, set := range b.Related {
		for _, a := range set {
			add(types.SourceRelatedWeb, a.Title, a.URL, a.Excerpt)
		}
	}
	return items
}

func videoExcerpt(transcript string) string {
	r := []rune(transcript)
	if len(r) > videoExcerptLen {
		r = r[:videoExcerptLen]
	}
	return string(r) + "..."
}
