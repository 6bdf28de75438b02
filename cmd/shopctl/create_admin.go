package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/online_pharmacy/internal/app"
	"github.com/Skotchmaster/online_pharmacy/internal/config"
	"github.com/Skotchmaster/online_pharmacy/internal/service"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
)

func newCreateAdminCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Read()
			if err := cfg.ValidateStore(); err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			publisher := app.OpenPublisher(cfg)
			defer publisher.Close()

			svc := &service.AuthService{Users: store, Events: publisher, BcryptCost: cfg.BcryptCost}
			u, err := svc.CreateAdmin(ctx, transport.CredentialsRequest{Username: username, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
