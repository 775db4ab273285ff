package configs

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxRetries = 10
	retryDelay = 5 * time.Second
)

func OpenConnection(env ENV, log zerolog.Logger) (*gorm.DB, error) {
	dialector, target, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	gormLogLevel := logger.Warn
	if env.IsProduction() {
		gormLogLevel = logger.Error
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.Info().Str("target", target).Int("attempt", i+1).Int("max", maxRetries).Msg("connecting to database")

		db, err := gorm.Open(dialector, &gorm.Config{
			Logger:         logger.Default.LogMode(gormLogLevel),
			TranslateError: true,
		})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					if env.DBDriver == "sqlite" {
						sqlDB.SetMaxOpenConns(1)
					} else {
						sqlDB.SetMaxOpenConns(20)
						sqlDB.SetMaxIdleConns(5)
						sqlDB.SetConnMaxLifetime(30 * time.Minute)
					}
					log.Info().Str("driver", env.DBDriver).Msg("database connection successful")
					return db, nil
				}
			}
			lastErr = pingErr
			log.Warn().Err(pingErr).Dur("retry_in", retryDelay).Msg("failed to ping database")
		} else {
			lastErr = err
			log.Warn().Err(err).Dur("retry_in", retryDelay).Msg("failed to open gorm connection")
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries (%s): %w", maxRetries, target, lastErr)
}
