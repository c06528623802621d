package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goa.design/clue/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"palaksingh/internal/config"
	"palaksingh/internal/domain"
	"palaksingh/internal/metrics"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 10 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open connects to PostgreSQL or SQLite, configures the pool and migrates
// the booking and testimonial tables.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	var sqlDB *sql.DB
	var err error

	switch cfg.Driver() {
	case config.DriverPostgres:
		log.Print(ctx, log.KV{K: "svc", V: "db"}, log.KV{K: "msg", V: "connecting to PostgreSQL"})
		dialector = postgres.Open(cfg.GetPostgresDSN())
	case config.DriverSQLite:
		dbPath := cfg.GetSQLitePath()
		log.Print(ctx, log.KV{K: "svc", V: "db"}, log.KV{K: "msg", V: "connecting to SQLite"}, log.KV{K: "path", V: dbPath})
		sqlDB, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		dialector = sqlite.Dialector{
			DriverName: "sqlite",
			DSN:        dbPath,
			Conn:       sqlDB,
		}
	default:
		return nil, fmt.Errorf("driver %q is not relational", cfg.Driver())
	}

	// SQL is never logged; errors are returned to callers.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver() == config.DriverPostgres {
		pool.SetMaxOpenConns(maxOpenConns)
		pool.SetMaxIdleConns(maxIdleConns)
		pool.SetConnMaxLifetime(connMaxLifetime)
		pool.SetConnMaxIdleTime(connMaxIdleTime)
		log.Print(ctx, log.KV{K: "svc", V: "db"}, log.KV{K: "max_open", V: maxOpenConns}, log.KV{K: "max_idle", V: maxIdleConns})
	} else {
		// one writer; also keeps ":memory:" databases on a single connection
		pool.SetMaxOpenConns(1)
	}

	if err := HealthCheck(ctx, db); err != nil {
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&domain.Booking{}, &domain.Testimonial{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Print(ctx, log.KV{K: "svc", V: "db"}, log.KV{K: "msg", V: "database connected and migrated"})
	return db, nil
}

// HealthCheck pings the database
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// RecordStats publishes pool statistics to the connection gauges.
func RecordStats(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	stats := sqlDB.Stats()
	metrics.UpdateDBConnections(stats.InUse, stats.Idle)
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
