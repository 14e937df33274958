// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deepdive CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/deepdive/internal/config"
	"github.com/pdiddy/deepdive/internal/logging"
	"github.com/pdiddy/deepdive/internal/secrets"
	"github.com/pdiddy/deepdive/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appConfig is the configuration loaded before every subcommand runs.
	appConfig *types.Config
	logger    = zap.NewNop()
)

// rootCmd is the base command for the deepdive CLI.
var rootCmd = &cobra.Command{
	Use:   "deepdive",
	Short: "Research a topic and write an illustrated explainer post",
	Long: `deepdive researches a topic across web articles and video transcripts,
aggregates what it finds, and writes a long-form explainer post with stick
figure illustrations.

Use research for a full run, the search and illustrate subcommands to
exercise single stages, serve to expose everything as MCP tools, and
archive to browse saved results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		v := viper.New()
		used, err := config.Prepare(v, cfgFile)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			v.Set("log.level", lvl)
		}

		bootstrap, err := logging.New(v.GetString("log.level"), v.GetString("log.format"))
		if err != nil {
			return err
		}

		keys, err := secrets.Load(".secrets/", bootstrap)
		if err != nil {
			return err
		}
		if names := keys.Names(); len(names) > 0 {
			bootstrap.Info("loaded secrets", zap.Strings("keys", names))
		}
		if used != "" {
			bootstrap.Info("using config file", zap.String("path", used))
		}

		cfg, err := config.Load(v, keys)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = bootstrap
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deepdive.yaml or ~/.config/deepdive/deepdive.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
