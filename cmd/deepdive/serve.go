// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/deepdive/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research tools over MCP",
	Long: `Serve exposes research_topic, web_search, youtube_search and
generate_cartoon as Model Context Protocol tools. By default it speaks
line-delimited JSON-RPC on stdin and stdout; with --http it listens on the
given address and also serves /healthz and /metrics.

Logs always go to stderr so stdout stays a clean protocol stream.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("http", "", "listen address for the HTTP transport (e.g. :8080); empty uses stdio")
	serveCmd.Flags().Lookup("http").NoOptDefVal = "default"
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(appConfig.Server, a.services(), logger.Named("mcp"), a.inst)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("http")
	if addr == "" {
		if err := srv.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	if addr == "default" {
		addr = appConfig.Server.HTTPAddr
	}
	logger.Info("serving MCP over HTTP", zap.String("addr", addr),
		zap.String("server", appConfig.Server.Name), zap.String("version", appConfig.Server.Version))
	return srv.ListenAndServe(ctx, addr, a.registry)
}
