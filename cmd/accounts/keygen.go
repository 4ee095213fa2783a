package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/accounts/internal/accounts/app"
)

func newKeygenCmd() *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Write a new Ed25519 signing key",
		Long: `Generates a PKCS8 Ed25519 private key for signing tokens. Point
ACCOUNTS_SIGNING_KEY_FILE at it so tokens stay valid across restarts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = os.Getenv("ACCOUNTS_SIGNING_KEY_FILE")
			}
			if out == "" {
				return errors.New("no output path: pass --out or set ACCOUNTS_SIGNING_KEY_FILE")
			}

			if err := app.WriteSigningKey(out, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote signing key to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default ACCOUNTS_SIGNING_KEY_FILE)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing key")
	return cmd
}
