// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/pdiddy/deepdive/pkg/types"
)

// styleVoices describe each writing style to the model.
var styleVoices = map[types.Style]string{
	types.StyleHumorous:  "funny, engaging and educational, full of analogies, thought experiments and self-aware asides",
	types.StyleTechnical: "precise and rigorous, explaining mechanisms step by step while staying readable",
	types.StyleBalanced:  "conversational but careful, mixing light humor with clear technical explanation",
}

func voice(style types.Style) string {
	if v, ok := styleVoices[style]; ok {
		return v
	}
	return styleVoices[types.StyleHumorous]
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"voice": voice,
	"inc":   func(i int) int { return i + 1 },
}

var structureSystemTmpl = template.Must(template.New("structure-system").Funcs(funcs).Parse(`You are a long-form explainer writer who breaks down complex topics in a voice that is {{voice .}}.

Create a detailed outline for a blog post. Your response must use these line prefixes:
Title: <a catchy title>
Subtitle: <a subtitle>
Hook: <the opening hook>
# <section header>   (5-7 sections, each followed by one or two lines describing its content)
Cartoon: <a concept for a stick-figure cartoon>   (exactly 3 of these)
Closing: <closing thoughts>`))

var structureUserTmpl = template.Must(template.New("structure-user").Funcs(funcs).Parse(`Based on this research analysis about "{{.Analysis.Topic}}":

Summary: {{.Analysis.Summary}}
Key Points: {{join .Analysis.KeyPoints ", "}}
Themes: {{join .Analysis.Themes ", "}}
Complexity Level: {{.Analysis.Complexity}}

Create a blog post structure in the {{.Style}} style.
`))

var synthesisSystemTmpl = template.Must(template.New("synthesis-system").Funcs(funcs).Parse(`You are a long-form explainer writer. Write a complete blog post in a voice that is {{voice .}}.

- Start with an engaging hook.
- Break down complex concepts step by step.
- End with the bigger picture implications.
- Write in Markdown and separate paragraphs with blank lines.
- Do not add image or cartoon markers; they are placed for you.`))

var synthesisUserTmpl = template.Must(template.New("synthesis-user").Funcs(funcs).Parse(`Write the full post "{{.Structure.Title}}: {{.Structure.Subtitle}}" in the {{.Style}} style.
{{if .Structure.OpeningHook}}
Opening hook: {{.Structure.OpeningHook}}
{{end}}
Sections:
{{range $i, $s := .Structure.Sections}}{{inc $i}}. {{$s.Header}}{{if $s.Outline}}: {{$s.Outline}}{{end}}
{{end}}
Research summary:
{{.Analysis.Summary}}

Key points:
{{range .Analysis.KeyPoints}}- {{.}}
{{end}}
Open questions the research did not cover: {{join .Analysis.Gaps ", "}}
{{if .Illustrations}}
Illustrations that will accompany the post:
{{range $i, $ill := .Illustrations}}{{inc $i}}. {{$ill.Concept}}
{{end}}{{end}}{{if .Structure.ClosingThoughts}}
Closing thoughts: {{.Structure.ClosingThoughts}}
{{end}}`))

var fallbackPostTmpl = template.Must(template.New("fallback-post").Funcs(funcs).Parse(`# {{.Structure.Title}}
## {{.Structure.Subtitle}}

{{.Hook}}

## Introduction

So here's the thing about {{.Analysis.Topic}}: it seems simple on the surface and gets stranger the deeper you dig.

## The Basics

Let me start with what we know. {{.Summary}}
{{range .Structure.Sections}}
## {{.Header}}
{{if .Outline}}
{{.Outline}}
{{end}}{{end}}{{if .KeyPoints}}
## Going Deeper

{{range .KeyPoints}}- {{.}}
{{end}}{{end}}
## Conclusion

{{.Closing}}

---

*Sources: {{.Analysis.TotalSources}} sources gathered from web articles and video transcripts.*
`))

type structurePrompt struct {
	Analysis types.Analysis
	Style    types.Style
}

type synthesisPrompt struct {
	Structure     types.ContentStructure
	Analysis      types.Analysis
	Illustrations []types.Illustration
	Style         types.Style
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
