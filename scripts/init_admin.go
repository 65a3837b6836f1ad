package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"tinhnguyen/internal/config"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/id"
	"tinhnguyen/internal/pkg/logger"
	"tinhnguyen/internal/pkg/mongodb"
	"tinhnguyen/internal/pkg/password"
	userrepo "tinhnguyen/internal/repository/user"
)

// Standalone super admin bootstrap for environments where running the main
// binary is inconvenient (e.g. a one-off container job). Same config search
// path as cmd/root.go.
func main() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.tinhnguyen")

	viper.SetEnvPrefix("TINHNGUYEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	ctx := context.Background()
	users := userrepo.NewRepo(client.Database())

	email := os.Getenv("INIT_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	passwordPlain := os.Getenv("INIT_ADMIN_PASSWORD")
	if passwordPlain == "" {
		passwordPlain = "admin123"
	}

	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			log.Fatal().Err(err).Msg("failed to query user")
		}
		log.Info().Str("email", email).Msg("admin user not found, will create")
		if err := createAdmin(ctx, users, email, passwordPlain); err != nil {
			log.Fatal().Err(err).Msg("create admin user failed")
		}
	} else {
		log.Info().Str("email", email).Msg("account exists, will promote to super_admin")
		if err := users.SetRole(ctx, existing.ID, user.RoleSuperAdmin); err != nil {
			log.Fatal().Err(err).Msg("promote admin user failed")
		}
	}

	fmt.Printf("Admin initialized: email=%s role=super_admin\n", email)
}

func createAdmin(ctx context.Context, repo *userrepo.Repo, email, pwd string) error {
	hashed, err := password.Hash(pwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:       id.New(),
		Email:    email,
		Password: hashed,
		Role:     user.RoleSuperAdmin,
	}

	return repo.Create(ctx, u)
}
