// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textanalysis

import (
	"sort"
	"strings"
)

const (
	minKeyPointLen = 20
	maxKeyPointLen = 200
	maxKeyPoints   = 8
)

// emphasisIndicators mark a sentence as a key point regardless of topic overlap.
var emphasisIndicators = []string{
	"important", "key", "main", "primary", "essential",
	"crucial", "significant", "major", "fundamental",
}

// KeyPoints extracts up to eight key sentences from text. A sentence
// qualifies when its trimmed length is within [20, 200] characters and it
// either shares a lowercase word with the topic or contains an emphasis
// indicator. Duplicates are dropped and first-seen order is kept.
func KeyPoints(text, topic string) []string {
	tokens := TopicTokens(topic)
	seen := make(map[string]bool)
	var points []string

	for _, s := range SplitSentences(text) {
		s = strings.TrimSpace(s)
		n := runeLen(s)
		if n < minKeyPointLen || n > maxKeyPointLen {
			continue
		}
		if !SharesToken(s, tokens) && !containsAny(strings.ToLower(s), emphasisIndicators) {
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		points = append(points, s)
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

// keySentenceKeywords add weight to a sentence in KeySentences.
var keySentenceKeywords = []string{"important", "key", "main", "significant", "crucial", "essential"}

// KeySentences ranks the sentences of text by a length, position and
// keyword score and returns the best max of them. Sentences shorter than 20
// characters are ignored. Equal scores keep their original order.
func KeySentences(text string, max int) []string {
	if max <= 0 {
		max = 5
	}

	type scored struct {
		score    int
		sentence string
	}
	var ranked []scored

	for i, s := range SplitSentences(text) {
		s = strings.TrimSpace(s)
		if runeLen(s) < minKeyPointLen {
			continue
		}

		score := 0
		switch n := len(strings.Fields(s)); {
		case n >= 10 && n <= 30:
			score += 2
		case n >= 5 && n <= 40:
			score++
		}
		switch {
		case i < 3:
			score += 3
		case i < 10:
			score++
		}
		lower := strings.ToLower(s)
		for _, kw := range keySentenceKeywords {
			if strings.Contains(lower, kw) {
				score += 2
			}
		}
		ranked = append(ranked, scored{score: score, sentence: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]string, 0, min(max, len(ranked)))
	for i := 0; i < len(ranked) && i < max; i++ {
		out = append(out, ranked[i].sentence)
	}
	return out
}
