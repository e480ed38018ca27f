package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jensholdgaard/eventdesk/internal/config"
	"github.com/jensholdgaard/eventdesk/internal/httpapi"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the write API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Server.JWTSecret == "" {
				return fmt.Errorf("server.jwt_secret is not set (or export %s)", config.EnvJWTSecret)
			}
			tok, err := httpapi.GenerateToken(a.cfg.Server.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
