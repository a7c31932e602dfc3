package checks

import (
	"fmt"

	"chapter-sync/core/database"
	"chapter-sync/feature/library/models"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a library schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies that every library table carries the columns the application uses.
// Inspection failures are reported per table instead of aborting the check.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport, len(models.Tables)),
		Errors:  []string{},
	}

	for _, table := range models.Tables {
		missing, err := database.MissingColumns(db, table.Name, table.Columns)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table.Name, err))
			report.Matched = false
			continue
		}

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if len(missing) > 0 {
			tbl.MissingColumns = missing
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table.Name] = tbl
	}

	return report, nil
}
