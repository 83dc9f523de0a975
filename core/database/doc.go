// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens either MySQL or SQLite based on the configuration.
// The database only stores matching attempt history and is optional: the
// server runs without it and skips recording.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let repositories verify their tables
// after migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Optional database connection failed", zap.Error(err))
//	}
package database
