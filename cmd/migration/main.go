package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"rentdesk/cmd/migration/seed"
	"rentdesk/config"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

const migrationDir = "cmd/migration/migrations"

// migrationModels is ordered parents-first so seed cleanup can drop in
// reverse without tripping foreign keys.
var migrationModels = []any{
	&User{},
	&Property{},
	&Favorite{},
	&Inquiry{},
	&MaintenanceRequest{},
}

func main() {
	log := logger.New("migrations").Function("main")

	cfg, err := config.InitConfig()
	if err != nil {
		log.Er("failed to load config", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Er("failed to connect to database", err)
		os.Exit(1)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = migrateUp(db, cfg, log)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil {
				log.Er("down takes a numeric step count", err)
				os.Exit(1)
			}
		}
		err = migrateDown(steps, cfg, log)
	case "seed":
		err = reseed(db, cfg, log)
	default:
		log.Error("unknown command", "command", command)
		os.Exit(1)
	}

	if err != nil {
		log.Er("migration failed", err)
		os.Exit(1)
	}

	log.Info("Migrations complete", "command", command)
}

func migrateUp(db database.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("migrateUp")

	if err := execFileMigrations(cfg, log, migrate.Up); err != nil {
		return err
	}
	if err := autoMigrate(db.SQL, log); err != nil {
		return err
	}
	return db.CreateIndexes()
}

func migrateDown(steps int, cfg config.Config, log logger.Logger) error {
	log = log.Function("migrateDown")

	for range steps {
		if err := execFileMigrations(cfg, log, migrate.Down); err != nil {
			return err
		}
	}
	return nil
}

// reseed drops everything, flushes the caches, re-runs migrations, and loads
// the demo fixtures. Destructive, so only wired to the explicit seed command.
func reseed(db database.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("reseed")

	if err := db.SQL.Migrator().DropTable(migrationModels...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	if err := db.FlushAllCaches(); err != nil {
		return log.Err("failed to flush caches", err)
	}

	if err := migrateUp(db, cfg, log); err != nil {
		return err
	}

	log.Info("Seeding database")
	return seed.Seed(db.SQL, cfg, log)
}

// autoMigrate creates tables in two passes. The first pass skips foreign
// keys so mutually referencing tables (users <-> properties) can both exist
// before constraints are applied.
func autoMigrate(db *gorm.DB, log logger.Logger) error {
	log = log.Function("autoMigrate")

	db.Config.DisableForeignKeyConstraintWhenMigrating = true
	for _, model := range migrationModels {
		if db.Migrator().HasTable(model) {
			continue
		}
		if err := db.Migrator().CreateTable(model); err != nil {
			return log.Err("failed to create table", err, "model", fmt.Sprintf("%T", model))
		}
	}

	db.Config.DisableForeignKeyConstraintWhenMigrating = false
	if err := db.AutoMigrate(migrationModels...); err != nil {
		return log.Err("failed to apply constraints", err)
	}

	return nil
}

// execFileMigrations applies hand-written SQL migrations, for schema changes
// AutoMigrate cannot express. A missing or empty directory is not an error.
func execFileMigrations(
	cfg config.Config,
	log logger.Logger,
	direction migrate.MigrationDirection,
) error {
	log = log.Function("execFileMigrations")

	files, err := filepath.Glob(filepath.Join(migrationDir, "*.sql"))
	if err != nil {
		return log.Err("failed to scan migration directory", err)
	}
	if len(files) == 0 {
		log.Info("No SQL migration files, skipping")
		return nil
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseName,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return log.Err("failed to open migration connection", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Er("failed to close migration connection", closeErr)
		}
	}()

	applied, err := migrate.Exec(db, "postgres", &migrate.FileMigrationSource{Dir: migrationDir}, direction)
	if err != nil {
		return log.Err("failed to execute migrations", err)
	}

	log.Info("Applied SQL migrations", "count", applied)
	return nil
}
