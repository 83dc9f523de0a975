package checks

import (
	"regexp"
	"testing"
	"time"

	"quiz-manager/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type widget struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64"`
	Active    bool
	CreatedAt time.Time
}

func (widget) TableName() string {
	return "widgets"
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func showColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, &widget{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, report)
}

func TestCheckSchema_MySQL(t *testing.T) {
	query := regexp.QuoteMeta("SHOW COLUMNS FROM `widgets`")

	t.Run("Matched", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).WillReturnRows(showColumns().
			AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
			AddRow("name", "varchar(64)", "YES", "", nil, "").
			AddRow("active", "tinyint(1)", "YES", "", nil, "").
			AddRow("created_at", "datetime(3)", "YES", "", nil, ""))

		report, err := CheckSchema(db, &widget{})
		require.NoError(t, err)
		assert.True(t, report.Matched)
		assert.Equal(t, "ok", report.Tables["widgets"].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing And Mismatched", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).WillReturnRows(showColumns().
			AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
			AddRow("name", "int(11)", "YES", "", nil, "").
			AddRow("created_at", "datetime(3)", "YES", "", nil, ""))

		report, err := CheckSchema(db, &widget{})
		require.NoError(t, err)
		assert.False(t, report.Matched)
		tbl := report.Tables["widgets"]
		assert.Equal(t, "error", tbl.Status)
		assert.Equal(t, []string{"active"}, tbl.MissingColumns)
		require.Len(t, tbl.TypeMismatches, 1)
		assert.Contains(t, tbl.TypeMismatches[0], "name")
	})

	t.Run("Inspect Failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).WillReturnError(assert.AnError)

		report, err := CheckSchema(db, &widget{})
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Len(t, report.Errors, 1)
	})
}

func TestCheckSchema_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	report, err := CheckSchema(db, &widget{})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", report.Driver)
	assert.True(t, report.Matched, "%+v", report.Tables)
}
