package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentdesk/config"
	"rentdesk/internal/logger"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type CacheClient valkey.Client

// Cache holds one Valkey client per logical database. Keeping the caches in
// separate databases lets a single FLUSHDB clear one category without
// touching the others.
type Cache struct {
	General  CacheClient
	Session  CacheClient
	User     CacheClient
	Property CacheClient
	Events   CacheClient
}

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(cfg config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	db := &DB{log: log}

	if err := db.connectPostgres(cfg); err != nil {
		return DB{}, log.Err("failed to connect to postgres", err)
	}

	if err := db.connectCaches(cfg); err != nil {
		return DB{}, log.Err("failed to connect to cache", err)
	}

	return *db, nil
}

func (s *DB) connectPostgres(cfg config.Config) error {
	log := s.log.Function("connectPostgres")

	if cfg.DatabaseHost == "" || cfg.DatabaseName == "" || cfg.DatabaseUser == "" {
		return log.Error("database host, name, and user are required",
			"host", cfg.DatabaseHost, "database", cfg.DatabaseName)
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseName,
	)

	log.Info("Connecting to PostgreSQL",
		"host", cfg.DatabaseHost,
		"port", cfg.DatabasePort,
		"database", cfg.DatabaseName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 quietGormLogger(),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return log.Err("failed to open postgres connection", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to access underlying sql.DB", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return log.Err("postgres ping failed", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db
	log.Info("PostgreSQL connection established")
	return nil
}

// quietGormLogger routes gorm's output through slog at error level only;
// query logging stays off outside of debugging sessions.
func quietGormLogger() gormLogger.Interface {
	return gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) cacheClients() []struct {
	name   string
	client CacheClient
} {
	return []struct {
		name   string
		client CacheClient
	}{
		{"General", s.Cache.General},
		{"Session", s.Cache.Session},
		{"User", s.Cache.User},
		{"Property", s.Cache.Property},
		{"Events", s.Cache.Events},
	}
}

func (s *DB) Close() error {
	if s.SQL != nil {
		if sqlDB, err := s.SQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				s.log.Er("failed to close postgres connection", err)
			}
		}
	}

	for _, c := range s.cacheClients() {
		if c.client != nil {
			c.client.Close()
		}
	}

	return nil
}

// FlushAllCaches empties every cache database. Used by the seed command to
// guarantee the caches cannot serve rows from the pre-seed schema.
func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, c := range s.cacheClients() {
		if c.client == nil {
			continue
		}
		if err := c.client.Do(ctx, c.client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush cache", err, "cache", c.name)
		}
		log.Info("Flushed cache", "cache", c.name)
	}

	return nil
}
