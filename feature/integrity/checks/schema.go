package checks

import (
	"fmt"
	"strings"
	"sync"

	"quiz-manager/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// compatibleTypes lists column type fragments accepted for a gorm data type.
var compatibleTypes = map[schema.DataType][]string{
	schema.String: {"char", "text"},
	schema.Int:    {"int"},
	schema.Uint:   {"int"},
	schema.Float:  {"float", "double", "real", "decimal"},
	schema.Bool:   {"bool", "tinyint", "numeric"},
	schema.Time:   {"datetime", "timestamp"},
}

// CheckSchema verifies the database tables of the given gorm models.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database: %w", ErrNotConfigured)
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
		Errors:  []string{},
	}

	for _, model := range models {
		s, err := schema.Parse(model, &sync.Map{}, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		actualCols, err := database.GetTableColumns(db, s.Table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", s.Table, err))
			report.Matched = false
			continue
		}
		actualMap := make(map[string]database.ColumnInfo, len(actualCols))
		for _, col := range actualCols {
			actualMap[col.Field] = col
		}

		tbl := TableReport{
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}
		for _, field := range s.Fields {
			if field.DBName == "" {
				continue
			}
			actual, exists := actualMap[field.DBName]
			if !exists {
				tbl.MissingColumns = append(tbl.MissingColumns, field.DBName)
				tbl.Status = "error"
				report.Matched = false
				continue
			}
			if !typeCompatible(field.DataType, actual.Type) {
				tbl.TypeMismatches = append(tbl.TypeMismatches,
					fmt.Sprintf("%s: expected %s, got %s", field.DBName, field.DataType, actual.Type))
				tbl.Status = "error"
				report.Matched = false
			}
		}
		report.Tables[s.Table] = tbl
	}

	return report, nil
}

func typeCompatible(expected schema.DataType, actual string) bool {
	fragments, ok := compatibleTypes[expected]
	if !ok {
		return true
	}
	for _, f := range fragments {
		if strings.Contains(actual, f) {
			return true
		}
	}
	return false
}
