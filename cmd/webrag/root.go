// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root webrag command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "webrag",
		Short:         "Webrag — retrieval-augmented generation over web pages",
		Long:          "Webrag ingests web pages into a Qdrant vector index and answers questions over them with Gemini.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")

	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}
