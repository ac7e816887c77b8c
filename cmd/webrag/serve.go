// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webrag-dev/webrag/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webrag HTTP server",
		Long:  "Load configuration, wire the RAG pipeline, and serve HTTP until interrupted.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := Wire(ctx, cfg)
	if err != nil {
		return err
	}

	slog.Info("starting webrag",
		"listen", cfg.Server.ListenAddr(),
		"collection", cfg.Collection,
		"embedding_provider", cfg.Embedding.Provider,
		"embedding_model", app.Embedder.Model())

	return app.Server.Start(ctx)
}
