// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepdive/internal/illustrate"
)

var illustrateCmd = &cobra.Command{
	Use:   "illustrate <concept...>",
	Short: "Draw a stick figure cartoon for a concept",
	Long: `Illustrate renders one concept. The simple style draws locally; the
detailed style calls the configured image backend. A failed render still
writes a placeholder image and reports the error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIllustrate,
}

func init() {
	illustrateCmd.Flags().String("style", string(illustrate.StyleSimple), "simple or detailed")
	illustrateCmd.Flags().StringP("output", "o", "", "PNG output path (default: <images-dir>/<concept>.png)")
	rootCmd.AddCommand(illustrateCmd)
}

func runIllustrate(cmd *cobra.Command, args []string) error {
	style, _ := cmd.Flags().GetString("style")
	switch illustrate.ImageStyle(style) {
	case illustrate.StyleSimple, illustrate.StyleDetailed:
	default:
		return fmt.Errorf("unknown style %q: want simple or detailed", style)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	concept := strings.Join(args, " ")
	ill := a.backends.Tool.Generate(cmd.Context(), concept, illustrate.ImageStyle(style))

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		if err := os.MkdirAll(appConfig.Research.ImagesDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", appConfig.Research.ImagesDir, err)
		}
		path = filepath.Join(appConfig.Research.ImagesDir, slug(concept)+".png")
	}
	if err := os.WriteFile(path, ill.Payload, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n  method: %s\n  file:   %s\n", ill.Description, ill.Method, path)
	if ill.Error != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  error:  %s\n", ill.Error)
	}
	return nil
}
