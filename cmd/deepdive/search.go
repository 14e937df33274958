// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepdive/pkg/types"
)

var webSearchCmd = &cobra.Command{
	Use:   "web-search <query...>",
	Short: "Search the web and extract article content",
	Long: `Web-search runs the configured web provider (serpapi, duckduckgo or
simulated) and prints the extracted articles. It exercises the same backend
the research pipeline uses.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWebSearch,
}

var videoSearchCmd = &cobra.Command{
	Use:   "video-search <query...>",
	Short: "Search YouTube and fetch video transcripts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVideoSearch,
}

func init() {
	webSearchCmd.Flags().Int("max-results", 0, "maximum results (default from config)")
	webSearchCmd.Flags().Bool("json", false, "output results as JSON")
	videoSearchCmd.Flags().Int("max-videos", 0, "maximum videos (default from config)")
	videoSearchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(webSearchCmd, videoSearchCmd)
}

func runWebSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	max, _ := cmd.Flags().GetInt("max-results")
	if max <= 0 {
		max = appConfig.Research.MaxWebArticles
	}

	query := strings.Join(args, " ")
	articles, err := a.backends.Web.SearchAndExtract(cmd.Context(), query, max)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), articles)
	}
	return formatArticles(cmd.OutOrStdout(), a.backends.Web.Provider(), articles)
}

func formatArticles(w io.Writer, provider string, articles []types.WebArticle) error {
	if len(articles) == 0 {
		_, err := fmt.Fprintln(w, "No articles found.")
		return err
	}
	fmt.Fprintf(w, "%d article(s) from %s\n\n", len(articles), provider)
	for i, art := range articles {
		fmt.Fprintf(w, "%d. %s\n   %s\n   %d words", i+1, art.Title, art.URL, art.WordCount)
		if art.Excerpt != "" {
			fmt.Fprintf(w, "\n   %s", truncate(art.Excerpt, 120))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func runVideoSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	max, _ := cmd.Flags().GetInt("max-videos")
	if max <= 0 {
		max = appConfig.Research.MaxVideos
	}

	query := strings.Join(args, " ")
	videos, err := a.backends.Video.SearchAndTranscribe(cmd.Context(), query, max)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), videos)
	}
	return formatVideos(cmd.OutOrStdout(), videos)
}

func formatVideos(w io.Writer, videos []types.Video) error {
	if len(videos) == 0 {
		_, err := fmt.Fprintln(w, "No videos found.")
		return err
	}
	fmt.Fprintf(w, "%-4s  %-50s  %-25s  %s\n", "#", "Title", "Channel", "Transcript")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, v := range videos {
		fmt.Fprintf(w, "%-4d  %-50s  %-25s  %d words\n",
			i+1, truncate(v.Title, 50), truncate(v.Channel, 25), len(strings.Fields(v.Transcript)))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
