package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/id"
	"tinhnguyen/internal/pkg/mongodb"
	"tinhnguyen/internal/pkg/password"
	userRepo "tinhnguyen/internal/repository/user"
)

var initAdminCmd = &cobra.Command{
	Use:   "init-admin",
	Short: "Bootstrap the super admin account",
	Long: `Creates the super_admin account, or promotes an existing account to
super_admin. This is the only way a super_admin can come into existence;
the in-band promotion path stops at team_admin.`,
	RunE: runInitAdmin,
}

func init() {
	rootCmd.AddCommand(initAdminCmd)

	flags := initAdminCmd.Flags()
	flags.String("email", "admin@example.com", "admin login email")
	flags.String("password", "", "admin password (required when creating)")
}

func runInitAdmin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	email, _ := cmd.Flags().GetString("email")
	pwd, _ := cmd.Flags().GetString("password")

	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect mongo: %w", err)
	}
	ctx := context.Background()
	defer func() {
		_ = client.Close(ctx)
	}()

	users := userRepo.NewRepo(client.Database())

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == user.RoleSuperAdmin {
			log.Info().Str("email", email).Msg("super admin already in place")
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, user.RoleSuperAdmin); err != nil {
			return fmt.Errorf("failed to promote existing account: %w", err)
		}
		log.Info().Str("email", email).Str("user_id", existing.ID).Msg("existing account promoted to super admin")
		return nil

	case apperr.IsKind(err, apperr.KindNotFound):
		if pwd == "" {
			return fmt.Errorf("--password is required when creating the admin account")
		}
		hashed, err := password.Hash(pwd)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u := &user.User{
			ID:       id.New(),
			Email:    email,
			Password: hashed,
			Role:     user.RoleSuperAdmin,
		}
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		log.Info().Str("email", email).Str("user_id", u.ID).Msg("super admin created")
		return nil

	default:
		return fmt.Errorf("failed to look up %s: %w", email, err)
	}
}
