// Command seed creates the bootstrap admin account from SEED_ADMIN_EMAIL,
// SEED_ADMIN_PASSWORD and SEED_ADMIN_NAME.
package main

import (
	"context"

	"sharebloom-backend/internal/config"
	"sharebloom-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	config.SetupLogger(cfg)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	u, created, err := database.SeedAdmin(context.Background(), db, database.SeedAdminInput{
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Name:     cfg.SeedAdminName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	if created {
		log.Info().Str("email", u.Email).Msg("admin created")
		return
	}
	log.Info().Str("email", u.Email).Str("role", u.Role).Msg("user already exists, nothing to do")
}
