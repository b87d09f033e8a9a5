package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clipvive/services/intake-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.User{}, &entities.Job{}); err != nil {
		return err
	}
	log.Info().Msg("applied user and job migrations")
	return nil
}
