// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textanalysis

import (
	"sort"
	"strings"
)

const (
	minThemeWordLen = 4
	topThemeWords   = 10
	maxThemes       = 5
	clusterPrefix   = 4
	maxPartners     = 2
)

// stopWords are excluded from theme ranking.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
}

// TopWords returns the n most frequent non-stop words of at least four
// characters. Ties keep first-occurrence order.
func TopWords(text string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range Words(text) {
		if runeLen(w) < minThemeWordLen || stopWords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// Themes ranks the top ten words of text and greedily clusters words that
// share their first four characters. Each unclustered word yields a theme of
// its own and a word with partners renders as "word (partner1, partner2)".
// At most five themes are returned.
func Themes(text string) []string {
	top := TopWords(text, topThemeWords)
	used := make(map[string]bool, len(top))
	var themes []string

	for _, word := range top {
		if used[word] {
			continue
		}
		used[word] = true

		prefix := truncateRunes(word, clusterPrefix)
		var partners []string
		for _, w := range top {
			if used[w] || truncateRunes(w, clusterPrefix) != prefix {
				continue
			}
			used[w] = true
			partners = append(partners, w)
		}

		if len(partners) == 0 {
			themes = append(themes, word)
		} else {
			partners = partners[:min(len(partners), maxPartners)]
			themes = append(themes, word+" ("+strings.Join(partners, ", ")+")")
		}
		if len(themes) == maxThemes {
			break
		}
	}
	return themes
}
