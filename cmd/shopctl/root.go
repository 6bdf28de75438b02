package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shopctl",
		Short: "Online pharmacy backend",
		Long: `shopctl runs the pharmacy shop HTTP API and its maintenance tasks.

Configuration comes from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd())
	return root
}
