package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/concordlabs/concord/internal/entity"
)

func InitPostgres(dsn string) (*gorm.DB, *sql.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		log.Error().Msg(fmt.Errorf("failed to connect to database: %w", err).Error())
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Msg(fmt.Errorf("failed to get underlying sql.DB: %w", err).Error())
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxIdleTime(300 * time.Second)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	log.Info().Msg("Postgres database connection established successfully")
	return db, sqlDB, nil
}

// Migrate creates or updates the schema for every persisted entity.
// Deployments that manage the schema externally turn it off with
// CONCORD_DATABASE_POSTGRES_AUTO_MIGRATE=false.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Profile{},
		&entity.Server{},
		&entity.Member{},
		&entity.Channel{},
		&entity.Conversation{},
		&entity.Message{},
		&entity.DirectMessage{},
	)
}
