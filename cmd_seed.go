package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/auth"
	"github.com/Adedunmol/stresspulse/api/tokens"
	"github.com/Adedunmol/stresspulse/config"
	"github.com/Adedunmol/stresspulse/database"
)

func seedAdminCmd() *cobra.Command {
	var body auth.SeedAdminBody

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account or reset its password",
		Long: `Create the admin account or reset its password.

Flags left empty fall back to SEED_ADMIN_NAME, SEED_ADMIN_EMAIL and
SEED_ADMIN_PASSWORD.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			if body.Name == "" {
				body.Name = e.cfg.SeedAdmin.Name
			}
			if body.Email == "" {
				body.Email = e.cfg.SeedAdmin.Email
			}
			if body.Password == "" {
				body.Password = e.cfg.SeedAdmin.Password
			}

			return seedAdmin(cmd.Context(), e, body)
		},
	}

	cmd.Flags().StringVar(&body.Name, "name", "", "display name of the admin")
	cmd.Flags().StringVar(&body.Email, "email", "", "login email of the admin")
	cmd.Flags().StringVar(&body.Password, "password", "", "login password, at least 8 characters")

	return cmd
}

func seedAdmin(ctx context.Context, e *env, body auth.SeedAdminBody) error {
	// only hashing is needed here, so the secret may be absent
	tokenService, err := tokens.NewTokenService(secretOrPlaceholder(e.cfg), e.cfg.TokenTTL)
	if err != nil {
		return err
	}

	admin, err := auth.SeedAdmin(ctx, auth.NewAdminStore(database.New(e.pool)), tokenService, body)
	if err != nil {
		return err
	}

	e.log.Info("admin account ready", zap.String("id", admin.ID), zap.String("email", admin.Email))
	return nil
}

func secretOrPlaceholder(cfg config.Config) string {
	if cfg.SecretKey != "" {
		return cfg.SecretKey
	}
	return "seed-admin"
}
