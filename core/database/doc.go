// Package database handles database connections and schema inspection.
//
// It wraps GORM and selects the dialect from the application's configuration:
// MySQL (default), PostgreSQL through pgx, or SQLite for local use and tests.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for the active dialect. The library
// feature uses it to verify that the chapter and manga tables carry every column the
// store writes before an update campaign starts.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "chapters")
package database
