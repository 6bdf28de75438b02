package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/online_pharmacy/internal/app"
	"github.com/Skotchmaster/online_pharmacy/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes for the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Read()
			if err := cfg.ValidateStore(); err != nil {
				return err
			}

			store, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s store\n", cfg.StoreDriver)
			return nil
		},
	}
}
