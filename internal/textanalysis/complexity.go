// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textanalysis

import (
	"strings"

	"github.com/pdiddy/deepdive/pkg/types"
)

var technicalTerms = []string{
	"algorithm", "quantum", "molecular", "statistical", "theoretical",
	"computational", "mathematical", "scientific", "engineering",
	"technical", "advanced", "complex", "sophisticated",
}

var simpleTerms = []string{
	"basic", "simple", "easy", "beginner", "introduction", "overview",
	"fundamentals", "basics", "elementary",
}

// presentTerms counts how many of terms occur in lower at least once.
func presentTerms(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

// MeanSentenceWords is the mean whitespace word count over every sentence
// fragment, empty fragments included.
func MeanSentenceWords(text string) float64 {
	sentences := SplitSentences(text)
	total := 0
	for _, s := range sentences {
		total += len(strings.Fields(s))
	}
	return float64(total) / float64(max(len(sentences), 1))
}

// Complexity rates text as high when technical terms outnumber simple ones
// and sentences average more than 20 words, low when simple terms
// outnumber technical ones and sentences average fewer than 15 words, and
// medium otherwise. Each term counts once however often it appears.
func Complexity(text string) types.Complexity {
	lower := strings.ToLower(text)
	technical := presentTerms(lower, technicalTerms)
	simple := presentTerms(lower, simpleTerms)
	mean := MeanSentenceWords(text)

	switch {
	case technical > simple && mean > 20:
		return types.ComplexityHigh
	case simple > technical && mean < 15:
		return types.ComplexityLow
	default:
		return types.ComplexityMedium
	}
}

// categoryRules are checked in order; the first matching rule wins.
var categoryRules = []struct {
	category types.Category
	terms    []string
}{
	{types.CategoryResearch, []string{"study", "research", "analysis", "experiment"}},
	{types.CategoryTutorial, []string{"tutorial", "how to", "guide", "step"}},
	{types.CategoryOpinion, []string{"opinion", "think", "believe", "perspective"}},
	{types.CategoryNews, []string{"news", "announced", "today", "breaking"}},
}

// Categorize assigns text to the first category whose keywords it contains.
func Categorize(text string) types.Category {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		if containsAny(lower, rule.terms) {
			return rule.category
		}
	}
	return types.CategoryGeneral
}
