// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textanalysis holds the pure heuristics applied to gathered text:
// sentence splitting, key-point and theme extraction, complexity rating,
// and content categorization. Nothing here performs I/O or keeps state,
// and every function returns identical ordered output for identical input.
//
// The heuristics are deliberately simple frequency and keyword checks. Their
// thresholds are fixed so that results can be asserted exactly in tests.
package textanalysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sentenceTerminators = regexp.MustCompile(`[.!?]+`)
	wordPattern         = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// SplitSentences splits text on runs of '.', '!' and '?'. Pieces are
// returned unmodified, including empty ones, so that positional rules such
// as "the first 20 sentences" count the same fragments every time.
func SplitSentences(text string) []string {
	return sentenceTerminators.Split(text, -1)
}

// Words returns the lowercase word tokens of s in order of appearance.
func Words(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

// TopicTokens returns the set of lowercase whitespace-separated tokens of topic.
func TopicTokens(topic string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(topic)) {
		tokens[t] = true
	}
	return tokens
}

// SharesToken reports whether any word of sentence appears in tokens.
func SharesToken(sentence string, tokens map[string]bool) bool {
	for _, w := range Words(sentence) {
		if tokens[w] {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains at least one of terms as a substring.
func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// runeLen counts characters rather than bytes.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes returns at most n characters of s.
func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
