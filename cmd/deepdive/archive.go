// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepdive/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse results saved with research --archive",
	Long: `Archive manages a local SQLite database of finished research results
with FTS5 indexing over topics and post content. Use subcommands to list,
show, search, or export saved results.`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived results, newest first",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived result",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

var archiveSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search over archived topics and posts",
	Long: `Search runs an FTS5 query over archived results. Use --source to list
the results that cite a given URL instead.`,
	RunE: runArchiveSearch,
}

var archiveExportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export archived results as YAML or JSON",
	RunE:  runArchiveExport,
}

func init() {
	archiveListCmd.Flags().Int("limit", archive.DefaultLimit, "maximum entries")
	archiveListCmd.Flags().Bool("json", false, "output entries as JSON")

	archiveShowCmd.Flags().Bool("json", false, "print the full result as JSON")
	archiveShowCmd.Flags().Bool("yaml", false, "print the full result as YAML")
	archiveShowCmd.Flags().Bool("pretty", false, "render the post for the terminal")
	archiveShowCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")

	archiveSearchCmd.Flags().Int("limit", archive.DefaultLimit, "maximum entries")
	archiveSearchCmd.Flags().String("source", "", "list results citing this source URL")
	archiveSearchCmd.Flags().Bool("json", false, "output entries as JSON")

	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")

	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveSearchCmd, archiveExportCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return formatEntries(cmd, entries)
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out, closeOut, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return formatResult(cmd, out, result)
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	if len(args) == 0 && source == "" {
		return fmt.Errorf("query or --source required")
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	var entries []archive.Entry
	if source != "" {
		entries, err = store.BySourceURL(cmd.Context(), source, limit)
	} else {
		entries, err = store.Search(cmd.Context(), strings.Join(args, " "), limit)
	}
	if err != nil {
		return err
	}
	return formatEntries(cmd, entries)
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown format %q: want yaml or json", format)
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	out, closeOut, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	if format == "json" {
		return store.ExportJSON(cmd.Context(), out, args...)
	}
	return store.ExportYAML(cmd.Context(), out, args...)
}

func formatEntries(cmd *cobra.Command, entries []archive.Entry) error {
	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(w, entries)
	}
	return writeEntryTable(w, entries)
}

func writeEntryTable(w io.Writer, entries []archive.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	fmt.Fprintf(w, "%-36s  %-20s  %-40s  %-9s  %6s  %s\n",
		"ID", "Generated", "Topic", "Style", "Words", "Sources")
	fmt.Fprintln(w, strings.Repeat("-", 130))
	for _, e := range entries {
		fmt.Fprintf(w, "%-36s  %-20s  %-40s  %-9s  %6d  %d\n",
			e.ID, e.GeneratedAt.Format("2006-01-02 15:04:05"), truncate(e.Topic, 40),
			e.Style, e.WordCount, e.SourceCount)
	}
	return nil
}
