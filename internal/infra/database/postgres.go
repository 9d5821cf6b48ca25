package database

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/totegamma/fantalega/internal/infra/database/models"
)

const slowQueryThreshold = 300 * time.Millisecond

// NewPostgres opens the team and push store. Slow queries and driver errors
// are reported through the default slog handler at warn level.
func NewPostgres(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "NewPostgres: gorm.Open failed")
	}
	return db, nil
}

func MigratePostgres(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Team{},
		&models.PushSubscription{},
		&models.UserSession{},
	)
	if err != nil {
		return errors.Wrap(err, "MigratePostgres: AutoMigrate failed")
	}
	return nil
}
