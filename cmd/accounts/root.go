package main

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/accounts/internal/accounts/app"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "accounts",
		Short: "User accounts service",
		Long: `User accounts service: sign-up, sign-in and profile management over HTTP.

Configuration is read from ACCOUNTS_* environment variables (and a .env
file when ENV=dev). Running without a subcommand is the same as "serve".`,
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(serve, newMigrateCmd(), newKeygenCmd())
	return root
}
