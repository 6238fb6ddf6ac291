package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/auth"
	"github.com/hackgods/docspot/internal/notify"
)

func bootstrapAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the administrator account if none exists",
		Long:  "Creates a verified administrator. Credentials default to ADMIN_EMAIL and ADMIN_PASSWORD.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			if email == "" || password == "" {
				return errors.New("admin email and password are required (flags or ADMIN_EMAIL/ADMIN_PASSWORD)")
			}

			tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
			svc := account.NewService(account.NewPgRepository(pool), tokens, notify.Discard{})

			created, err := svc.EnsureAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if created {
				log.Info().Str("email", email).Msg("admin account created")
			} else {
				log.Info().Msg("an admin account already exists, nothing to do")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}
