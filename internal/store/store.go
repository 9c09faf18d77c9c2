package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/config"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Store owns the database handle. Every exported operation runs in its own
// transaction, so nothing is held between requests.
type Store struct {
	db     *gorm.DB
	driver string
	log    *zap.SugaredLogger
}

// Open connects to the configured database and pings it. It does not touch
// the schema; call EnsureSchema before serving requests.
func Open(cfg config.Config, log *zap.SugaredLogger) (*Store, error) {
	dialector, err := dialectorFor(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log.Desugar()), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  sqlLogLevel(cfg),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}

	log.Infow("database connected", "driver", cfg.DBDriver)
	return &Store{db: db, driver: cfg.DBDriver, log: log}, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "sqlite":
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// sqlLogLevel echoes every statement outside production.
func sqlLogLevel(cfg config.Config) logger.LogLevel {
	switch {
	case cfg.IsProduction():
		return logger.Warn
	case cfg.Environment == "test":
		return logger.Silent
	default:
		return logger.Info
	}
}

var schemas = map[string]string{
	"sqlite": `CREATE TABLE IF NOT EXISTS task (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT 0
)`,
	"mysql": `CREATE TABLE IF NOT EXISTS task (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE
)`,
	"postgres": `CREATE TABLE IF NOT EXISTS task (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE
)`,
}

// EnsureSchema creates the task table if it is missing. Existing rows are
// never touched, so it is safe to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	driver := s.driver
	if driver == "" {
		driver = "sqlite"
	}
	ddl, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, s.driver)
	}
	if err := s.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("ensure task schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
