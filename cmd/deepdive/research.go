// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deepdive/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research <topic...>",
	Short: "Research a topic and write an illustrated post",
	Long: `Research gathers web articles and video transcripts for the topic,
aggregates them, and writes a long-form explainer post. The post is printed
as Markdown; use --json or --yaml for the full result including sources and
metrics.

Illustrations are written as PNG files to --images-dir.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Int("depth", 0, "research depth 1-5 (default from config)")
	researchCmd.Flags().String("style", "", "writing style: humorous, technical, balanced (default from config)")
	researchCmd.Flags().Bool("no-illustrations", false, "skip illustration generation")
	researchCmd.Flags().Bool("json", false, "print the full result as JSON")
	researchCmd.Flags().Bool("yaml", false, "print the full result as YAML")
	researchCmd.Flags().Bool("pretty", false, "render the post for the terminal")
	researchCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")
	researchCmd.Flags().String("images-dir", "", "directory for illustration PNGs (default from config)")
	researchCmd.Flags().Bool("archive", false, "save the result to the local archive")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	depth, _ := cmd.Flags().GetInt("depth")
	style, _ := cmd.Flags().GetString("style")
	noIll, _ := cmd.Flags().GetBool("no-illustrations")

	result, err := a.research.Run(ctx, types.ResearchRequest{
		Topic:                strings.Join(args, " "),
		Depth:                depth,
		Style:                types.Style(style),
		IncludeIllustrations: !noIll,
	})
	if err != nil {
		return err
	}

	imagesDir, _ := cmd.Flags().GetString("images-dir")
	if imagesDir == "" {
		imagesDir = appConfig.Research.ImagesDir
	}
	paths, err := writeIllustrations(imagesDir, result.ID, result.Illustrations)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Info("wrote illustration", zap.String("path", p))
	}

	if save, _ := cmd.Flags().GetBool("archive"); save {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, result); err != nil {
			return err
		}
		logger.Info("archived result", zap.String("id", result.ID))
	}

	out, closeOut, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return formatResult(cmd, out, result)
}

func formatResult(cmd *cobra.Command, w io.Writer, result *types.ResearchResult) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	pretty, _ := cmd.Flags().GetBool("pretty")

	switch {
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case asYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case pretty:
		rendered, err := renderMarkdown(result.Content)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, rendered)
		return err
	}

	_, err := fmt.Fprintln(w, result.Content)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%d words, %d sources (%d failed), %d illustrations, %dms\n",
		result.Metrics.WordCount, result.Metrics.SourceCount, result.Metrics.FailedSources,
		result.Metrics.IllustrationCount, result.Metrics.DurationMS)
	return nil
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// outputWriter returns stdout or the --output file and its closer.
func outputWriter(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// writeIllustrations stores each payload as dir/<id>-<n>-<slug>.png.
func writeIllustrations(dir, id string, ills []types.Illustration) ([]string, error) {
	if len(ills) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	paths := make([]string, 0, len(ills))
	for i, ill := range ills {
		name := fmt.Sprintf("%s-%02d-%s.png", shortID(id), i+1, slug(ill.Concept))
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, ill.Payload, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// slug lowercases s and keeps at most 40 characters of letters and digits,
// joining runs of anything else with "-".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if b.Len() >= 40 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "illustration"
	}
	return out
}
