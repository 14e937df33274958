// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textanalysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pdiddy/deepdive/pkg/types"
)

// --- key points ---

func TestKeyPoints(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		topic string
		want  []string
	}{
		{
			name:  "topic overlap and emphasis qualify, duplicates dropped",
			text:  "Neural networks learn from data. Short one. This is an important idea for everyone here! Cats sleep a lot during the day? Neural networks learn from data.",
			topic: "Neural Networks",
			want:  []string{"Neural networks learn from data", "This is an important idea for everyone here"},
		},
		{
			name:  "length bounds are inclusive",
			text:  "quantum abcdefghijkl. quantum abcdefghijk. quantum " + strings.Repeat("x", 192) + ". quantum " + strings.Repeat("y", 193) + ".",
			topic: "quantum",
			want:  []string{"quantum abcdefghijkl", "quantum " + strings.Repeat("x", 192)},
		},
		{
			name:  "no qualifying sentences",
			text:  "Cats sleep a lot during the day. Dogs chase the mail carrier.",
			topic: "rockets",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeyPoints(tt.text, tt.topic)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("KeyPoints() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyPointsCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "topic sentence number %d here. ", i)
	}
	got := KeyPoints(b.String(), "topic")
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	if got[0] != "topic sentence number 0 here" || got[7] != "topic sentence number 7 here" {
		t.Errorf("unexpected order: first %q last %q", got[0], got[7])
	}
}

func TestKeySentences(t *testing.T) {
	s0 := "Cats are nice animals to have around"
	s1 := "This is a crucial and important point to remember about things"
	text := s0 + ". " + s1 + ". Dogs bark."

	if diff := cmp.Diff([]string{s1}, KeySentences(text, 1)); diff != "" {
		t.Errorf("KeySentences(1) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{s1, s0}, KeySentences(text, 5)); diff != "" {
		t.Errorf("KeySentences(5) mismatch (-want +got):\n%s", diff)
	}
}

// --- themes ---

func TestThemes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "prefix clustering with frequency ranking",
			text: "learning learning learning learner learner models models data",
			want: []string{"learning (learner)", "models", "data"},
		},
		{
			name: "stop words and short words ignored",
			text: "would would would have have been cat dog rocket",
			want: []string{"rocket"},
		},
		{
			name: "at most five themes",
			text: "alpha bravo charlie delta echoes foxtrot golfs",
			want: []string{"alpha", "bravo", "charlie", "delta", "echoes"},
		},
		{
			name: "at most two partners rendered",
			text: "compute computer computing computation",
			want: []string{"compute (computer, computing)"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Themes(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Themes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractionIsDeterministic(t *testing.T) {
	text := strings.Repeat("Rockets are the key to space travel. Engines burn fuel to make thrust. ", 5) +
		"Space agencies build rockets. Engineers test engines daily."
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(Themes(text), Themes(text)); diff != "" {
			t.Fatalf("Themes not deterministic:\n%s", diff)
		}
		if diff := cmp.Diff(KeyPoints(text, "rockets"), KeyPoints(text, "rockets")); diff != "" {
			t.Fatalf("KeyPoints not deterministic:\n%s", diff)
		}
	}
}

// --- complexity ---

func TestComplexity(t *testing.T) {
	longTechnical := strings.Repeat("word ", 23) + "algorithm quantum"
	presenceNotOccurrence := strings.Repeat("simple ", 4) + "quantum algorithm " + strings.TrimSpace(strings.Repeat("word ", 19))

	tests := []struct {
		name string
		text string
		want types.Complexity
	}{
		{"technical and long", longTechnical, types.ComplexityHigh},
		{"simple and short", "A basic and simple overview", types.ComplexityLow},
		{"technical but short", "Quantum algorithm.", types.ComplexityMedium},
		{"empty", "", types.ComplexityMedium},
		{"terms counted once each", presenceNotOccurrence, types.ComplexityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Complexity(tt.text); got != tt.want {
				t.Errorf("Complexity() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMeanSentenceWordsCountsEmptyFragments(t *testing.T) {
	// "one two three four." splits into a 4-word fragment and an empty one.
	if got := MeanSentenceWords("one two three four."); got != 2 {
		t.Errorf("MeanSentenceWords() = %v, want 2", got)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want types.Category
	}{
		{"A new study shows results", types.CategoryResearch},
		{"How to bake bread", types.CategoryTutorial},
		{"I think so", types.CategoryOpinion},
		{"breaking news", types.CategoryNews},
		{"cats nap", types.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Categorize(tt.text); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// --- source helpers ---

func TestCleanTranscript(t *testing.T) {
	in := "00:01 HOST: Hello [Music] world\n12:30 GUEST: bye (inaudible)"
	if got := CleanTranscript(in); got != "Hello world bye" {
		t.Errorf("CleanTranscript() = %q", got)
	}
}

func TestExtractQuotes(t *testing.T) {
	text := `He said "this is a quote with many words" and "short one".`
	want := []string{"this is a quote with many words"}
	if diff := cmp.Diff(want, ExtractQuotes(text)); diff != "" {
		t.Errorf("ExtractQuotes() mismatch (-want +got):\n%s", diff)
	}
}

func TestDomainAndAcademic(t *testing.T) {
	if got := Domain("https://example.com/path"); got != "example.com" {
		t.Errorf("Domain() = %q", got)
	}
	if got := Domain("://bad"); got != "unknown" {
		t.Errorf("Domain(bad) = %q, want unknown", got)
	}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://cs.stanford.edu/x", true},
		{"https://arxiv.org/abs/1234", true},
		{"https://scholar.google.com/q", true},
		{"https://example.com", false},
	}
	for _, tt := range tests {
		if got := IsAcademic(tt.url); got != tt.want {
			t.Errorf("IsAcademic(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
