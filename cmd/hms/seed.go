package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	authservice "github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

func seedCmd(a *app) *cobra.Command {
	var adminID, adminPassword string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load wards, medicines and an admin login",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := postgres.Seed(ctx, db, postgres.DefaultSeedData())
			if err != nil {
				return err
			}
			a.log.Info().
				Int64("wards", result.Wards).
				Int64("medicines", result.Medicines).
				Msg("reference data seeded")

			if adminPassword == "" {
				a.log.Warn().Msg("no --admin-password given, skipping admin login")
				return nil
			}

			accounts := authservice.NewService(
				postgres.NewCredentialRepository(db),
				security.NewBcryptHasher(a.cfg.Auth.BcryptCost, a.cfg.Auth.MinPasswordLength),
				auth.NewJWTService(auth.Config{Secret: a.cfg.JWT.Secret, Issuer: a.cfg.JWT.Issuer}, auth.NewRevocationList(time.Minute)),
			)
			err = accounts.Signup(ctx, adminID, adminPassword)
			switch {
			case err == nil:
				a.log.Info().Str("user_id", adminID).Msg("admin login created")
			case apperrors.HasCode(err, apperrors.ErrConflict):
				a.log.Info().Str("user_id", adminID).Msg("admin login already exists")
			default:
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&adminID, "admin-id", "admin1", "user id of the seeded admin, must start with 'a'")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the seeded admin")
	return cmd
}
