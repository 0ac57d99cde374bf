package database

import (
	"rentdesk/internal/logger"
	"rentdesk/internal/models"
)

// MigrateModels applies GORM AutoMigrate for every persisted model. The API
// server calls this at startup so a fresh database is usable without running
// the migration binary first.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")

	for _, model := range []any{
		&models.User{},
		&models.Property{},
		&models.Favorite{},
		&models.Inquiry{},
		&models.MaintenanceRequest{},
	} {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Schema migration complete")
	return nil
}

// CreateIndexes adds indexes AutoMigrate cannot express, like the expression
// index on the JSONB address city used by property search.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")

	for _, stmt := range []string{
		"CREATE INDEX IF NOT EXISTS idx_maintenance_requests_created_at ON maintenance_requests(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_properties_address_city ON properties((address->>'city'))",
		"CREATE INDEX IF NOT EXISTS idx_inquiries_seeker_property ON inquiries(seeker_id, property_id)",
	} {
		if err := db.SQL.Exec(stmt).Error; err != nil {
			// A failed index is a performance problem, not a startup blocker.
			log.Warn("Failed to create index", "sql", stmt, "error", err)
		}
	}

	return nil
}
