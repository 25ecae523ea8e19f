// seeduser creates or resets the first admin so the API can be used at all.
// Usage: ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"os"
	"strings"

	"filialpos/internal/config"
	"filialpos/internal/infra"
	"filialpos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	senha := os.Getenv("ADMIN_PASSWORD")
	if email == "" || len(senha) < 8 {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD (min 8 chars) are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	admin := model.Usuario{
		ID:           uuid.New(),
		Nome:         "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Ativo:        true,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "filial_id", "ativo"}),
	}).Create(&admin).Error
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Str("email", email).Msg("admin created or reset")
}
