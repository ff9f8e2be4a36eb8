package database

import (
	"database/sql"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/totegamma/brandproof/internal/infra/database/models"
)

// NewPostgres opens the brand configuration database. debug logs every
// statement instead of only slow ones.
func NewPostgres(dsn string, debug bool) (*gorm.DB, error) {
	return open(postgres.Open(dsn), debug)
}

// NewPostgresFromConn wraps an existing connection, e.g. a sqlmock handle.
func NewPostgresFromConn(conn *sql.DB) (*gorm.DB, error) {
	return open(postgres.New(postgres.Config{Conn: conn}), false)
}

func open(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
}

func MigratePostgres(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BrandConfig{},
	)
}
