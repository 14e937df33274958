// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pdiddy/deepdive/internal/illustrate"
	"github.com/pdiddy/deepdive/internal/retrieval"
	"github.com/pdiddy/deepdive/pkg/types"
)

const pngMIME = "image/png"

// Researcher runs the full research pipeline.
type Researcher interface {
	Run(ctx context.Context, req types.ResearchRequest) (*types.ResearchResult, error)
}

// Cartoonist renders one concept on demand.
type Cartoonist interface {
	Generate(ctx context.Context, concept string, style illustrate.ImageStyle) types.Illustration
}

// Services are the operations the tools expose. A nil service makes its
// tool report an error result.
type Services struct {
	Research Researcher
	Web      retrieval.WebBackend
	Video    retrieval.VideoBackend
	Cartoons Cartoonist

	// Defaults supplies the default result counts of the diagnostic tools.
	Defaults types.ResearchConfig
}

type handler func(ctx context.Context, args map[string]any) (ToolResult, error)

type tool struct {
	Tool
	schema *gojsonschema.Schema
	run    handler
}

func (s *Server) registerTools(svc Services) error {
	webDefault := svc.Defaults.MaxWebArticles
	if webDefault <= 0 {
		webDefault = 5
	}
	videoDefault := svc.Defaults.MaxVideos
	if videoDefault <= 0 {
		videoDefault = 3
	}
	styles := make([]any, len(types.Styles))
	for i, st := range types.Styles {
		styles[i] = string(st)
	}

	defs := []struct {
		Tool
		run handler
	}{
		{
			Tool: Tool{
				Name:        "research_topic",
				Description: "Research a topic across web articles and video transcripts and write an illustrated long-form explainer post",
				InputSchema: object(map[string]any{
					"topic": map[string]any{
						"type":        "string",
						"minLength":   1,
						"description": "The topic to research, e.g. 'How Neural Networks Work'",
					},
					"depth": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"maximum":     types.MaxDepth,
						"default":     types.DefaultDepth,
						"description": "Research depth (1-5); controls how many sources are gathered",
					},
					"style": map[string]any{
						"type":        "string",
						"enum":        styles,
						"default":     string(types.StyleHumorous),
						"description": "Writing style of the post",
					},
					"include_illustrations": map[string]any{
						"type":        "boolean",
						"default":     true,
						"description": "Whether to generate stick figure illustrations",
					},
					"include_cartoons": map[string]any{
						"type":        "boolean",
						"description": "Alias of include_illustrations; wins when both are given",
					},
				}, "topic"),
			},
			run: researchTopic(svc.Research),
		},
		{
			Tool: Tool{
				Name:        "web_search",
				Description: "Search the web and extract article content",
				InputSchema: object(map[string]any{
					"query":       map[string]any{"type": "string", "minLength": 1, "description": "Search query"},
					"max_results": map[string]any{"type": "integer", "minimum": 1, "maximum": 10, "default": webDefault},
				}, "query"),
			},
			run: webSearch(svc.Web),
		},
		{
			Tool: Tool{
				Name:        "youtube_search",
				Description: "Search YouTube and extract video transcripts",
				InputSchema: object(map[string]any{
					"query":      map[string]any{"type": "string", "minLength": 1, "description": "YouTube search query"},
					"max_videos": map[string]any{"type": "integer", "minimum": 1, "maximum": 10, "default": videoDefault},
				}, "query"),
			},
			run: youtubeSearch(svc.Video),
		},
		{
			Tool: Tool{
				Name:        "generate_cartoon",
				Description: "Generate a stick figure cartoon for a concept",
				InputSchema: object(map[string]any{
					"concept": map[string]any{"type": "string", "minLength": 1, "description": "Concept to illustrate"},
					"style": map[string]any{
						"type":    "string",
						"enum":    []any{string(illustrate.StyleSimple), string(illustrate.StyleDetailed)},
						"default": string(illustrate.StyleSimple),
					},
				}, "concept"),
			},
			run: generateCartoon(svc.Cartoons),
		},
	}

	for _, d := range defs {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(d.InputSchema))
		if err != nil {
			return fmt.Errorf("compiling %s schema: %w", d.Name, err)
		}
		t := &tool{Tool: d.Tool, schema: schema, run: d.run}
		s.tools = append(s.tools, t)
		s.byName[d.Name] = t
	}
	return nil
}

func object(properties map[string]any, required ...string) map[string]any {
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             req,
		"additionalProperties": false,
	}
}

// prepare fills schema defaults into args and validates the result.
func (t *tool) prepare(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	props, _ := t.InputSchema["properties"].(map[string]any)
	for name, p := range props {
		if _, ok := out[name]; ok {
			continue
		}
		if def, ok := p.(map[string]any)["default"]; ok {
			out[name] = def
		}
	}

	result, err := t.schema.Validate(gojsonschema.NewGoLoader(out))
	if err != nil {
		return nil, fmt.Errorf("validating arguments: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return nil, fmt.Errorf("invalid arguments for %s: %s", t.Name, strings.Join(msgs, "; "))
	}
	return out, nil
}

// decode converts validated arguments into a typed struct.
func decode(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding arguments: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}
	return nil
}

func jsonText(v any) (Content, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Content{}, fmt.Errorf("encoding result: %w", err)
	}
	return TextContent(string(b)), nil
}

func researchTopic(r Researcher) handler {
	return func(ctx context.Context, args map[string]any) (ToolResult, error) {
		if r == nil {
			return ToolResult{}, fmt.Errorf("research pipeline is not configured")
		}
		var req types.ResearchRequest
		if err := decode(args, &req); err != nil {
			return ToolResult{}, err
		}
		if v, ok := args["include_cartoons"].(bool); ok {
			req.IncludeIllustrations = v
		}
		result, err := r.Run(ctx, req)
		if err != nil {
			return ToolResult{}, err
		}

		content := []Content{TextContent(result.Content)}
		for _, ill := range result.Illustrations {
			content = append(content, ImageContent(base64.StdEncoding.EncodeToString(ill.Payload), pngMIME))
		}
		meta, err := jsonText(struct {
			ID       string             `json:"id"`
			Summary  string             `json:"summary"`
			Sources  []types.SourceItem `json:"sources"`
			Metrics  types.Metrics      `json:"metrics"`
			Captions []string           `json:"illustrations"`
		}{
			ID:       result.ID,
			Summary:  result.AnalysisSummary,
			Sources:  result.Sources,
			Metrics:  result.Metrics,
			Captions: captions(result.Illustrations),
		})
		if err != nil {
			return ToolResult{}, err
		}
		return ToolResult{Content: append(content, meta)}, nil
	}
}

func captions(ills []types.Illustration) []string {
	out := make([]string, len(ills))
	for i, ill := range ills {
		out[i] = ill.Description
	}
	return out
}

func webSearch(w retrieval.WebBackend) handler {
	return func(ctx context.Context, args map[string]any) (ToolResult, error) {
		if w == nil {
			return ToolResult{}, fmt.Errorf("web search is not configured")
		}
		var in struct {
			Query      string `json:"query"`
			MaxResults int    `json:"max_results"`
		}
		if err := decode(args, &in); err != nil {
			return ToolResult{}, err
		}
		articles, err := w.SearchAndExtract(ctx, in.Query, in.MaxResults)
		if err != nil {
			return ToolResult{}, err
		}
		text, err := jsonText(struct {
			Query      string             `json:"query"`
			Articles   []types.WebArticle `json:"articles"`
			TotalFound int                `json:"total_found"`
		}{in.Query, nonNil(articles), len(articles)})
		if err != nil {
			return ToolResult{}, err
		}
		return ToolResult{Content: []Content{text}}, nil
	}
}

type videoOut struct {
	types.Video
	TranscriptLength int `json:"transcript_length"`
}

func youtubeSearch(v retrieval.VideoBackend) handler {
	return func(ctx context.Context, args map[string]any) (ToolResult, error) {
		if v == nil {
			return ToolResult{}, fmt.Errorf("video search is not configured")
		}
		var in struct {
			Query     string `json:"query"`
			MaxVideos int    `json:"max_videos"`
		}
		if err := decode(args, &in); err != nil {
			return ToolResult{}, err
		}
		videos, err := v.SearchAndTranscribe(ctx, in.Query, in.MaxVideos)
		if err != nil {
			return ToolResult{}, err
		}
		out := make([]videoOut, len(videos))
		for i, vid := range videos {
			out[i] = videoOut{Video: vid, TranscriptLength: len(strings.Fields(vid.Transcript))}
		}
		text, err := jsonText(struct {
			Query      string     `json:"query"`
			Videos     []videoOut `json:"videos"`
			TotalFound int        `json:"total_found"`
		}{in.Query, out, len(out)})
		if err != nil {
			return ToolResult{}, err
		}
		return ToolResult{Content: []Content{text}}, nil
	}
}

func generateCartoon(c Cartoonist) handler {
	return func(ctx context.Context, args map[string]any) (ToolResult, error) {
		if c == nil {
			return ToolResult{}, fmt.Errorf("cartoon generation is not configured")
		}
		var in struct {
			Concept string `json:"concept"`
			Style   string `json:"style"`
		}
		if err := decode(args, &in); err != nil {
			return ToolResult{}, err
		}
		ill := c.Generate(ctx, in.Concept, illustrate.ImageStyle(in.Style))
		caption := fmt.Sprintf("%s (%s)", ill.Description, ill.Method)
		if ill.Error != "" {
			caption += ": " + ill.Error
		}
		return ToolResult{Content: []Content{
			ImageContent(base64.StdEncoding.EncodeToString(ill.Payload), pngMIME),
			TextContent(caption),
		}}, nil
	}
}

func nonNil(a []types.WebArticle) []types.WebArticle {
	if a == nil {
		return []types.WebArticle{}
	}
	return a
}
