package db

import (
	"fmt"
	"log"
	"strings"

	"coworking_app_go/config"
	"coworking_app_go/models"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// oneActiveSessionIndex backs the one-active-session-per-computer rule at the store level.
// Both sqlite and postgres accept partial indexes with this syntax.
const oneActiveSessionIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_active_per_computer ON sessions (computer_id) WHERE active = true`

// Initialize opens the configured database and stores it in DB.
// DATABASE_URL (postgres) wins over TURSO_DATABASE_URL (libsql), which wins over the local sqlite file.
func Initialize(cfg *config.Config) error {
	dialector, label := selectDialector(cfg)

	// Determine log level based on environment
	logLevel := logger.Info
	if cfg.Environment == "production" {
		logLevel = logger.Warn
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established (%s)", label)
	return nil
}

func selectDialector(cfg *config.Config) (gorm.Dialector, string) {
	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://"):
		return postgres.Open(cfg.DatabaseURL), "postgres"
	case cfg.TursoDatabaseURL != "":
		dsn := cfg.TursoDatabaseURL
		if cfg.TursoAuthToken != "" {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "authToken=" + cfg.TursoAuthToken
		}
		return sqlite.New(sqlite.Config{DriverName: "libsql", DSN: dsn}), "libsql/Turso"
	default:
		// Enable WAL mode for better concurrency support
		return sqlite.Open(cfg.DBPath + "?_journal_mode=WAL&_foreign_keys=on"), "sqlite, WAL mode enabled"
	}
}

// Migrate creates every table of the coworking schema plus the indexes gorm tags cannot express.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := database.Exec(oneActiveSessionIndex).Error; err != nil {
		return fmt.Errorf("failed to create active session index: %w", err)
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
